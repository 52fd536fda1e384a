package main

import (
	"context"
	"log"

	api "briefops/cmd/api"
	ingestDelivery "briefops/internal/ingest/delivery"
	ingestRepo "briefops/internal/ingest/repository"
	ingestUsecase "briefops/internal/ingest/usecase"
	onboardingDelivery "briefops/internal/onboarding/delivery"
	searchDelivery "briefops/internal/search/delivery"
	searchUsecase "briefops/internal/search/usecase"
	sumDelivery "briefops/internal/summarize/delivery"
	sumRepo "briefops/internal/summarize/repository"
	sumUsecase "briefops/internal/summarize/usecase"
	usageRepo "briefops/internal/usage/repository"
	usageUsecase "briefops/internal/usage/usecase"
	"briefops/pkg/chroma"
	"briefops/pkg/config"
	"briefops/pkg/gcs"
	"briefops/pkg/gemini"
	"briefops/pkg/slackbot"
	"briefops/pkg/webfetch"
	"briefops/pkg/websearch"
	"briefops/pkg/youtube"

	firebase "firebase.google.com/go/v4"
	"github.com/slack-go/slack/slackevents"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.SlackBotToken == "" || cfg.SlackAppToken == "" {
		log.Fatal("SLACK_BOT_TOKEN and SLACK_APP_TOKEN are required")
	}

	ctx := context.Background()

	// Initialize Firebase (Firestore + Cloud Storage)
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.GoogleCloudProject,
		StorageBucket: cfg.GCSBucket,
	})
	if err != nil {
		log.Fatal("Failed to initialize Firebase app: ", err)
	}
	fsClient, err := app.Firestore(ctx)
	if err != nil {
		log.Fatal("Failed to create Firestore client: ", err)
	}
	defer fsClient.Close()

	store, err := gcs.NewStore(ctx, app, cfg.GCSBucket)
	if err != nil {
		log.Fatal("Failed to initialize Cloud Storage: ", err)
	}

	// Initialize the Gemini summarization service
	geminiSvc, err := gemini.NewService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("Failed to initialize Gemini service: ", err)
	}
	defer geminiSvc.Close()

	decoding := gemini.DecodingConfig{
		Temperature:     float32(cfg.SummarizationTemperature),
		TopP:            float32(cfg.SummarizationTopP),
		TopK:            int32(cfg.SummarizationTopK),
		MaxOutputTokens: int32(cfg.SummarizationMaxOutputTokens),
	}

	// Initialize the Slack client
	bot := slackbot.New(cfg.SlackBotToken, cfg.SlackAppToken)
	botUserID := cfg.SlackBotUserID
	if botUserID == "" {
		botUserID, err = bot.BotUserID(ctx)
		if err != nil {
			log.Printf("[WARN] Failed to resolve bot user ID, onboarding mentions disabled: %v", err)
		}
	}

	// Initialize repositories (dependency injection)
	source := sumRepo.NewSlackSource(bot)
	usageRepository := usageRepo.NewUsageRepository(fsClient)
	ingestRepository := ingestRepo.NewIngestionRepository(fsClient)

	// Initialize the optional Chroma grounding index
	var grounding ingestUsecase.GroundingIndex
	if cfg.ChromaAPIKey != "" {
		index, err := chroma.NewGroundingIndex(cfg)
		if err != nil {
			log.Printf("[WARN] Failed to initialize Chroma client, grounding index disabled: %v", err)
		} else {
			grounding = index
		}
	} else {
		log.Printf("[WARN] CHROMA_API_KEY not set, grounding index disabled")
	}

	// Initialize use cases (dependency injection)
	fetcher := sumUsecase.NewFetcher(source)
	webFetcher := webfetch.New(cfg.WebFetchTimeout)
	summarizeSvc := sumUsecase.NewService(fetcher, source, geminiSvc, webFetcher, decoding)
	limiter := usageUsecase.NewLimiter(usageRepository, cfg.FreeTierDailyLimit, cfg.FreeTierMaxDays)
	chunker := sumUsecase.NewChunkedSummarizer(geminiSvc, decoding)
	transcripts := youtube.NewClient(cfg.DownloadTimeout)
	ingester := ingestUsecase.NewIngester(ingestRepository, source, store, geminiSvc, transcripts, chunker, grounding, decoding)

	// Start the background ingestion worker pool
	worker := ingestUsecase.NewWorker(ingester, bot, 3)
	worker.Start()
	defer worker.Stop()

	// Register Slack command handlers
	summarizeHandler := sumDelivery.NewHandler(summarizeSvc, fetcher, ingester, limiter, bot)
	ingestHandler := ingestDelivery.NewHandler(worker, bot)
	onboardingHandler := onboardingDelivery.NewHandler(bot, limiter, ingestRepository, botUserID)

	bot.HandleCommand("/briefops", summarizeHandler.HandleSummarize)
	bot.HandleCommand("/briefops-ingest", ingestHandler.HandleIngest)
	bot.HandleCommand("/briefops-status", onboardingHandler.HandleStatus)

	if cfg.GoogleAPIKey != "" && cfg.SearchEngineID != "" {
		searchClient, err := websearch.NewClient(ctx, cfg.GoogleAPIKey, cfg.SearchEngineID)
		if err != nil {
			log.Printf("[WARN] Failed to initialize web search, /briefops-search disabled: %v", err)
		} else {
			searchSvc := searchUsecase.NewService(searchClient, webFetcher, geminiSvc, decoding)
			searchHandler := searchDelivery.NewHandler(searchSvc, bot)
			bot.HandleCommand("/briefops-search", searchHandler.HandleSearch)
		}
	} else {
		log.Printf("[WARN] GOOGLE_API_KEY or SEARCH_ENGINE_ID not set, /briefops-search disabled")
	}

	bot.HandleMention(func(ctx context.Context, ev *slackevents.AppMentionEvent) {
		if onboardingHandler.MaybeWelcome(ctx, ev) {
			return
		}
		summarizeHandler.HandleThreadMention(ctx, ev)
	})

	// Serve health and status endpoints next to the bot
	httpHandler := api.NewHandler(cfg, limiter, ingestRepository)
	go func() {
		log.Printf("HTTP server starting on port %s", cfg.Port)
		if err := httpHandler.Start(":" + cfg.Port); err != nil {
			log.Printf("[ERROR] HTTP server stopped: %v", err)
		}
	}()

	log.Printf("⚡️ BriefOps is running")
	if err := bot.Run(ctx); err != nil {
		log.Fatal("Slack connection lost: ", err)
	}
}
