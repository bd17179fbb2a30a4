package handler

import (
	"github.com/fadilmartias/grant-portal/internal/dto"
	"github.com/fadilmartias/grant-portal/internal/middleware"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/usecase"
	"github.com/fadilmartias/grant-portal/internal/util"
	"github.com/gofiber/fiber/v2"
)

type ScoreHandler struct {
	uc *usecase.ScoreUsecase
}

func NewScoreHandler(uc *usecase.ScoreUsecase) *ScoreHandler {
	return &ScoreHandler{uc: uc}
}

// RegisterPublicRoutes mounts the routes that need no session.
func (h *ScoreHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/criteria", h.Criteria)
}

func (h *ScoreHandler) RegisterRoutes(router fiber.Router) {
	staff := middleware.RequireRoles(model.RoleCommittee, model.RoleAdmin)
	admin := middleware.RequireRoles(model.RoleAdmin)

	router.Put("/applications/:id/score", staff, h.Submit)
	router.Get("/scores", staff, h.List)
	router.Get("/scores/summary", admin, h.Summary)
	router.Delete("/users/:id/scores", admin, h.Reset)
}

func (h *ScoreHandler) Criteria(c *fiber.Ctx) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get scoring criteria",
		Data:    h.uc.Criteria(),
	})
}

func (h *ScoreHandler) Submit(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	var req dto.ScoreRequest
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	scored, err := h.uc.Submit(c.UserContext(), user, c.Params("id"), req.Scores, req.Notes)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Score submitted",
		Data:    dto.NewScoreDTO(scored.Score, scored.Result),
	})
}

// List returns the caller's own scores, or every score for admins.
func (h *ScoreHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	var scores []model.Score
	if user.Role == model.RoleAdmin {
		scores, err = h.uc.ListAll(c.UserContext())
	} else {
		scores, err = h.uc.ListForScorer(c.UserContext(), user.UID)
	}
	if err != nil {
		return util.HandleError(c, err)
	}
	out := make([]dto.ScoreDTO, 0, len(scores))
	for _, s := range scores {
		out = append(out, dto.NewScoreDTO(s, h.uc.Result(s)))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get scores",
		Data:    out,
		Meta:    fiber.Map{"count": len(out)},
	})
}

func (h *ScoreHandler) Summary(c *fiber.Ctx) error {
	summaries, err := h.uc.Summaries(c.UserContext())
	if err != nil {
		return util.HandleError(c, err)
	}
	out := make([]dto.ScoreSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.ScoreSummaryDTO{
			AppID:          s.AppID,
			Scorers:        s.Scorers,
			AverageRaw:     s.AverageRaw,
			AveragePercent: s.AveragePercent,
			Passed:         s.Passed,
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get score summary",
		Data:    out,
	})
}

func (h *ScoreHandler) Reset(c *fiber.Ctx) error {
	if err := h.uc.Reset(c.UserContext(), c.Params("id")); err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Scores reset"})
}
