package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/candidates/controller"
	authMiddleware "intikhab_backend/internals/middlewares/auth"
)

func CandidateRoutes(app *fiber.App, db *gorm.DB) {
	candidateController := controller.NewCandidateController(db)
	partyController := controller.NewPartyController(db)

	candidates := app.Group("/api/candidates", authMiddleware.AuthMiddleware(db))

	candidates.Get("/", candidateController.List)
	candidates.Post("/", authMiddleware.RequireAdmin("candidate management"), candidateController.Create)
	candidates.Get("/statistics", candidateController.Statistics)

	parties := candidates.Group("/parties")
	parties.Get("/", partyController.List)
	parties.Post("/", authMiddleware.RequireAdmin("party management"), partyController.Create)
	parties.Get("/:id/candidates", partyController.Candidates)
	parties.Patch("/:id", authMiddleware.RequireAdmin("party management"), partyController.Update)
	parties.Delete("/:id", authMiddleware.RequireAdmin("party management"), partyController.Delete)

	candidates.Get("/:id", candidateController.GetByID)
	candidates.Patch("/:id", authMiddleware.RequireAdmin("candidate management"), candidateController.Update)
	candidates.Delete("/:id", authMiddleware.RequireAdmin("candidate management"), candidateController.Delete)
	candidates.Get("/:id/vote_counts", candidateController.VoteCounts)
}
