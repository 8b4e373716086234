package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shiftbot/backend/internal/adapter"
	"shiftbot/backend/internal/agent"
	"shiftbot/backend/internal/discord"
	"shiftbot/backend/internal/knowledge"
	"shiftbot/backend/internal/permissions"
	"shiftbot/backend/internal/report"
	"shiftbot/backend/internal/scheduler"
	"shiftbot/backend/internal/sheets"
	"shiftbot/backend/internal/store"
	"shiftbot/backend/internal/tools"
	"shiftbot/backend/pkg/config"
	"shiftbot/backend/pkg/logger"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Discord bot...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if cfg.DiscordBotToken == "" {
		log.Fatal("DISCORD_BOT_TOKEN is required")
	}

	ctx := context.Background()
	dir := permissions.Default()

	// Open SQLite store
	db, err := store.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer db.Close()

	// Google Sheets client
	sheetsClient, err := sheets.NewClient(ctx, cfg.GoogleCredentialsPath)
	if err != nil {
		log.Fatal("Failed to create Sheets client", zap.Error(err))
	}
	sheetService := sheets.NewService(sheetsClient, dir)

	// Knowledge base is optional: without an embedding key the bot runs
	// with sheet and reminder tools only.
	var knowledgeSearcher tools.KnowledgeSearcher
	if cfg.OpenAIAPIKey != "" {
		repo, err := knowledge.NewRepository(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			log.Warn("Knowledge base unavailable, continuing without it", zap.Error(err))
		} else {
			defer repo.Close(ctx)
			embedder := knowledge.NewEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
			knowledgeSearcher = knowledge.NewService(repo, embedder)
			log.Info("Knowledge base connected", zap.String("uri", cfg.Neo4jURI))
		}
	}

	// Agent pipeline
	llmAdapter := adapter.NewLLMAdapter(cfg.LiteLLMURL, cfg.OpenAIAPIKey, cfg.ModelID)
	executor := tools.NewExecutor(sheetService, db, knowledgeSearcher, dir)
	orchestrator := agent.NewOrchestrator(llmAdapter, db, executor, dir)

	// Create Discord session
	dg, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		log.Fatal("Failed to create Discord session", zap.Error(err))
	}

	messageHandler := discord.NewHandler(orchestrator)
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		messageHandler.HandleMessage(s, m)
	})

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	// Open connection
	if err := dg.Open(); err != nil {
		log.Fatal("Failed to open Discord connection", zap.Error(err))
	}
	defer dg.Close()

	// Scheduled jobs: baselines, shift report, task reminders, due
	// user reminders.
	schedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	notifier := discord.NewNotifier(dg)
	reportService := report.NewService(sheetService, db, dir)
	sched := scheduler.New(cfg, dir, reportService, db, sheetService, notifier)
	go func() {
		if err := sched.Run(schedCtx); err != nil && err != context.Canceled {
			log.Error("Scheduler stopped", zap.Error(err))
		}
	}()

	log.Info("Discord bot is running. Press CTRL-C to exit.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Discord bot...")
}
