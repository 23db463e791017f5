package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/dates"
)

func (h *Handler) registerLibrary(api, admin *gin.RouterGroup) {
	admin.POST("/library/add", h.addBook)
	admin.PUT("/library/edit/:id", h.editBook)
	admin.POST("/library/issue", h.issueBooks)
	admin.POST("/library/return", h.returnBook)
	api.GET("/library/dashboard", h.libraryDashboard)
	api.GET("/student/library/dashboard", h.studentLibraryDashboard)
}

func (h *Handler) addBook(c *gin.Context) {
	var req struct {
		ISBN     string `json:"isbn" binding:"required"`
		Title    string `json:"title" binding:"required"`
		Author   string `json:"author"`
		Category string `json:"category"`
		Qty      int    `json:"qty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	book, created, err := h.library.AddBook(c.Request.Context(),
		req.ISBN, req.Title, req.Author, req.Category, req.Qty)
	if err != nil {
		fail(c, err)
		return
	}
	status := http.StatusOK
	message := "Stock updated"
	if created {
		status = http.StatusCreated
		message = "Book added successfully"
	}
	c.JSON(status, gin.H{"success": true, "message": message, "data": book})
}

func (h *Handler) editBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Book not found"})
		return
	}
	var req struct {
		Title    string `json:"title"`
		Author   string `json:"author"`
		ISBN     string `json:"isbn"`
		Category string `json:"category"`
		TotalQty int    `json:"totalQty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	book, err := h.library.EditBook(c.Request.Context(), id,
		req.Title, req.Author, req.ISBN, req.Category, req.TotalQty)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Book updated", "data": book})
}

func (h *Handler) issueBooks(c *gin.Context) {
	var req struct {
		BookIDs     []string `json:"bookIds" binding:"required"`
		StudentRoll string   `json:"studentRoll" binding:"required"`
		DueDate     string   `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		parsed, err := dates.ParseISO(req.DueDate)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, req.DueDate)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "dueDate must be YYYY-MM-DD"})
			return
		}
		due = &parsed
	}

	result, err := h.library.IssueBatch(c.Request.Context(), req.BookIDs, req.StudentRoll, due)
	if err != nil {
		fail(c, err)
		return
	}
	if result.AllFailed() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "No books could be issued",
			"issued":  result.Issued,
			"failed":  result.Failed,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"issued":  result.Issued,
		"failed":  result.Failed,
		"dueDate": result.DueDate,
	})
}

func (h *Handler) returnBook(c *gin.Context) {
	var req struct {
		TransactionID string `json:"transactionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	id, err := uuid.Parse(req.TransactionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Transaction not found"})
		return
	}
	txn, err := h.library.Return(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Book returned successfully", "data": txn})
}

func (h *Handler) libraryDashboard(c *gin.Context) {
	dash, err := h.library.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"inventory":    dash.Inventory,
			"activeIssues": dash.ActiveIssues,
			"stats": gin.H{
				"totalBooks":  dash.TotalBooks,
				"totalIssued": dash.TotalIssued,
			},
		},
	})
}

func (h *Handler) studentLibraryDashboard(c *gin.Context) {
	dash, err := h.library.StudentDashboard(c.Request.Context(), c.Query("roll"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": dash})
}
