package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/voting/controller"
	"intikhab_backend/internals/middlewares"
	authMiddleware "intikhab_backend/internals/middlewares/auth"
)

func VotingRoutes(app *fiber.App, db *gorm.DB) {
	voteCountController := controller.NewVoteCountController(db)
	entryController := controller.NewCommitteeEntryController(db)
	resultsController := controller.NewResultsController(db)

	voting := app.Group("/api/voting", authMiddleware.AuthMiddleware(db))

	voteCounts := voting.Group("/vote-counts")
	voteCounts.Get("/", voteCountController.List)
	voteCounts.Post("/", authMiddleware.RequireSupervisor("vote entry"), voteCountController.Create)
	voteCounts.Post("/bulk_entry", authMiddleware.RequireSupervisor("vote entry"), middlewares.BulkRateLimiter(), voteCountController.BulkEntry)
	voteCounts.Get("/:id", voteCountController.GetByID)
	voteCounts.Patch("/:id", authMiddleware.RequireSupervisor("vote entry"), voteCountController.Update)
	voteCounts.Post("/:id/verify", authMiddleware.RequireAdmin("vote verification"), voteCountController.Verify)
	voteCounts.Post("/:id/reject", authMiddleware.RequireAdmin("vote verification"), voteCountController.Reject)
	voteCounts.Get("/:id/audit", authMiddleware.RequireSupervisor("vote audit"), voteCountController.Audit)

	entries := voting.Group("/committee-entries")
	entries.Get("/", entryController.List)
	entries.Get("/progress", entryController.Progress)
	entries.Get("/:id", entryController.GetByID)
	entries.Post("/:id/verify", authMiddleware.RequireAdmin("vote verification"), entryController.Verify)

	results := voting.Group("/results")
	results.Get("/", resultsController.Get)
	results.Get("/summary", resultsController.Summary)
	results.Get("/by-committee", resultsController.ByCommittee)
	results.Post("/generate", authMiddleware.RequireAdmin("results generation"), resultsController.Generate)
	results.Post("/publish", authMiddleware.RequireAdmin("results publication"), resultsController.Publish)
}
