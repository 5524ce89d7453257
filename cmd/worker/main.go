package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"verification-backend/cmd"
	"verification-backend/internal/database"
	"verification-backend/internal/delivery"
	"verification-backend/internal/messaging"

	"github.com/caarlos0/env/v11"
)

type WorkerConfig struct {
	cmd.PipelineConfig

	DatabaseURL string `env:"DATABASE_URL" envDefault:"./verification-backend/db/verification.db"`
	RabbitMQURL string `env:"RABBITMQ_URL,notEmpty,required"`
	Concurrency int    `env:"CONCURRENCY" envDefault:"1"`
}

func main() {
	log.Println("Starting Worker Process...")

	cmd.LoadEnvFile()

	var cfg WorkerConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	receiver, err := messaging.NewRabbitMQReceiver(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}

	model := cmd.LoadSegmentationModel(cfg.PipelineConfig)
	if model != nil {
		defer model.Release()
	}

	verifier := cmd.NewVerifier(cfg.PipelineConfig, model)
	worker := messaging.NewVerifyWorker(receiver, verifier, delivery.NewNotifier(), db)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Start()
		}()
	}

	log.Printf("Worker started with %d consumers. Waiting for tasks. Press Ctrl+C to exit.", cfg.Concurrency)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received, waiting for workers to finish...")

	worker.Stop()
	wg.Wait()

	log.Println("Worker process stopped.")
}
