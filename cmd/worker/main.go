package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/clock"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/config"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/notify"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/queue"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/store"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/student"
)

// Worker delivers queued push notifications through the Expo gateway and runs
// the scheduled semester promotion sweep.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	}

	students := student.NewService(student.NewPostgresRepository(db.Client), clock.Real{}, cfg.TerminalSemester)

	// Promotions run on the first of January and July; the schedule is
	// configurable so staging can exercise the sweep.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.PromotionCron, func() {
		result, err := students.Promote(ctx)
		if err != nil {
			log.Printf("semester promotion failed: %v", err)
			return
		}
		log.Printf("semester promotion done: graduated=%d promoted=%d", result.Graduated, result.Promoted)
	}); err != nil {
		log.Fatalf("invalid promotion schedule %q: %v", cfg.PromotionCron, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	expo := notify.NewExpoClient(cfg.ExpoURL)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != notify.MessageType {
			continue
		}

		var push notify.Push
		if err := json.Unmarshal(msg.Body, &push); err != nil {
			log.Printf("drop malformed push message: %v", err)
			continue
		}

		sent := expo.Deliver(ctx, push)
		log.Printf("push %q delivered to %d of %d tokens", push.Title, sent, len(push.Tokens))
	}

	log.Println("worker stopped")
}
