package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"intikhab_backend/internals/configs"
	database "intikhab_backend/internals/databases"
	attendanceModel "intikhab_backend/internals/features/attendance/model"
	candidateModel "intikhab_backend/internals/features/candidates/model"
	electionModel "intikhab_backend/internals/features/elections/model"
	electorModel "intikhab_backend/internals/features/electorate/model"
	guaranteeModel "intikhab_backend/internals/features/guarantees/model"
	reportModel "intikhab_backend/internals/features/reports/model"
	authModel "intikhab_backend/internals/features/users/auth/model"
	scheduler "intikhab_backend/internals/features/users/auth/scheduler"
	userModel "intikhab_backend/internals/features/users/user/model"
	votingModel "intikhab_backend/internals/features/voting/model"
	middlewares "intikhab_backend/internals/middlewares"
	routes "intikhab_backend/internals/route"
	seeds "intikhab_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	if err := database.DB.AutoMigrate(
		&userModel.UserModel{},
		&authModel.RefreshTokenModel{},
		&authModel.TokenBlacklist{},
		&electionModel.ElectionModel{},
		&electionModel.CommitteeModel{},
		&electorModel.ElectorModel{},
		&candidateModel.PartyModel{},
		&candidateModel.CandidateModel{},
		&guaranteeModel.GuaranteeGroupModel{},
		&guaranteeModel.GuaranteeModel{},
		&guaranteeModel.GuaranteeNoteModel{},
		&guaranteeModel.GuaranteeHistoryModel{},
		&attendanceModel.AttendanceModel{},
		&attendanceModel.AttendanceStatisticsModel{},
		&votingModel.VoteCountModel{},
		&votingModel.CommitteeVoteEntryModel{},
		&votingModel.VoteCountAuditModel{},
		&votingModel.ElectionResultsModel{},
		&reportModel.ReportSnapshotModel{},
	); err != nil {
		log.Fatalf("❌ migration failed: %v", err)
	}
	log.Println("✅ Migrations applied.")

	scheduler.StartBlacklistCleanupScheduler(database.DB)

	seeds.RunAllSeeds(database.DB, configs.GetBool("SEED_DEMO", false))

	routes.SetupRoutes(app, database.DB)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 60 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
