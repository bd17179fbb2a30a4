package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/lifecycle"
	"github.com/fadilmartias/grant-portal/internal/metrics"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/repository"
	"github.com/fadilmartias/grant-portal/internal/service"
	"go.uber.org/zap"
)

type ApplicationUsecase struct {
	portal  service.PortalServiceInterface
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewApplicationUsecase(portal service.PortalServiceInterface, m *metrics.Metrics, logger *zap.Logger) *ApplicationUsecase {
	return &ApplicationUsecase{portal: portal, metrics: m, logger: logger.Named("application")}
}

// requireStage fails with ErrStageClosed when the portal hides the stage.
func (uc *ApplicationUsecase) requireStage(ctx context.Context, stage int) error {
	settings, err := uc.portal.GetPortalSettings(ctx)
	if err != nil {
		return err
	}
	open := settings.Stage1Visible
	if stage == 2 {
		open = settings.Stage2Visible
	}
	if !open {
		return fmt.Errorf("%w: stage %d is not accepting applications", apperror.ErrStageClosed, stage)
	}
	return nil
}

// owned loads an application and checks it belongs to user.
func (uc *ApplicationUsecase) owned(ctx context.Context, user model.User, id string) (*model.Application, error) {
	app, err := uc.portal.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.UserID != user.UID {
		return nil, fmt.Errorf("%w: application %s belongs to another user", apperror.ErrForbidden, id)
	}
	return app, nil
}

func validateDraft(draft model.Application) error {
	if strings.TrimSpace(draft.ProjectTitle) == "" {
		return fmt.Errorf("%w: project title is required", apperror.ErrValidation)
	}
	if !model.ValidArea(draft.Area) {
		return fmt.Errorf("%w: unknown area %q", apperror.ErrValidation, draft.Area)
	}
	if draft.TotalCost < 0 || draft.AmountRequested < 0 {
		return fmt.Errorf("%w: amounts cannot be negative", apperror.ErrValidation)
	}
	if draft.TotalCost > 0 && draft.AmountRequested > draft.TotalCost {
		return fmt.Errorf("%w: amount requested exceeds total cost", apperror.ErrValidation)
	}
	return nil
}

func (uc *ApplicationUsecase) transition(ctx context.Context, app *model.Application, to model.Status, updates map[string]any) error {
	from := app.Status
	if err := lifecycle.Transition(app, to); err != nil {
		return err
	}
	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = app.Status
	updates["stage"] = app.Stage
	if to == model.StatusSubmittedStage1 && app.Ref == "" {
		app.Ref = lifecycle.GenerateReference(app.Area, nil)
		updates["ref"] = app.Ref
	}
	if err := uc.portal.UpdateApplication(ctx, app.ID, updates); err != nil {
		return err
	}
	if uc.metrics != nil {
		uc.metrics.Transitions.WithLabelValues(string(to)).Inc()
	}
	uc.logger.Info("application status changed",
		zap.String("id", app.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return nil
}

// SubmitStage1 files an expression of interest. A new record is created
// unless draft.ID names one of the user's stage 1 drafts, which is then
// submitted in place.
func (uc *ApplicationUsecase) SubmitStage1(ctx context.Context, user model.User, draft model.Application) (*model.Application, error) {
	if err := uc.requireStage(ctx, 1); err != nil {
		return nil, err
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	draft.UserID = user.UID
	if draft.ApplicantName == "" {
		draft.ApplicantName = user.DisplayName
	}

	if draft.ID == "" {
		app, err := uc.portal.CreateApplication(ctx, draft)
		if err != nil {
			return nil, err
		}
		if uc.metrics != nil {
			uc.metrics.Transitions.WithLabelValues(string(app.Status)).Inc()
		}
		uc.logger.Info("stage 1 submitted", zap.String("id", app.ID), zap.String("ref", app.Ref))
		return app, nil
	}

	app, err := uc.owned(ctx, user, draft.ID)
	if err != nil {
		return nil, err
	}
	doc, err := repository.ToDocument(draft)
	if err != nil {
		return nil, err
	}
	for _, k := range []string{"id", "userId", "status", "stage", "ref", "createdAt"} {
		delete(doc, k)
	}
	if err := uc.transition(ctx, app, model.StatusSubmittedStage1, doc); err != nil {
		return nil, err
	}
	return uc.portal.GetApplication(ctx, app.ID)
}

// SaveDraft layers fields onto the form data of a draft owned by user.
func (uc *ApplicationUsecase) SaveDraft(ctx context.Context, user model.User, id string, fields map[string]any) (*model.Application, error) {
	app, err := uc.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if app.Status != model.StatusDraft {
		return nil, fmt.Errorf("%w: only drafts can be edited, application is %s", apperror.ErrInvalidTransition, app.Status)
	}
	if err := uc.portal.UpdateApplication(ctx, id, map[string]any{"formData": fields}); err != nil {
		return nil, err
	}
	return uc.portal.GetApplication(ctx, id)
}

// StartStage2 accepts an invitation and opens the full application form.
func (uc *ApplicationUsecase) StartStage2(ctx context.Context, user model.User, id string) (*model.Application, error) {
	if err := uc.requireStage(ctx, 2); err != nil {
		return nil, err
	}
	app, err := uc.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := uc.transition(ctx, app, model.StatusDraft, nil); err != nil {
		return nil, err
	}
	return app, nil
}

// SubmitStage2 merges the final form fields and submits the full
// application.
func (uc *ApplicationUsecase) SubmitStage2(ctx context.Context, user model.User, id string, fields map[string]any) (*model.Application, error) {
	if err := uc.requireStage(ctx, 2); err != nil {
		return nil, err
	}
	app, err := uc.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	var updates map[string]any
	if len(fields) > 0 {
		updates = map[string]any{"formData": fields}
	}
	if err := uc.transition(ctx, app, model.StatusSubmittedStage2, updates); err != nil {
		return nil, err
	}
	return uc.portal.GetApplication(ctx, id)
}

// ChangeStatus is the staff side of the lifecycle. Committee members may
// only invite to stage 2 or shortlist finalists; admins may apply any
// allowed transition.
func (uc *ApplicationUsecase) ChangeStatus(ctx context.Context, actor model.User, id string, to model.Status) (*model.Application, error) {
	if !lifecycle.ValidStatus(to) {
		return nil, fmt.Errorf("%w: unknown status %q", apperror.ErrValidation, to)
	}
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleCommittee:
		if to != model.StatusInvitedStage2 && to != model.StatusFinalist {
			return nil, fmt.Errorf("%w: committee members cannot set %s", apperror.ErrForbidden, to)
		}
	default:
		return nil, fmt.Errorf("%w: status changes need a committee or admin account", apperror.ErrForbidden)
	}

	app, err := uc.portal.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleCommittee && !inArea(*app, actor.Area) {
		return nil, fmt.Errorf("%w: application is outside your area", apperror.ErrForbidden)
	}
	if err := uc.transition(ctx, app, to, nil); err != nil {
		return nil, err
	}
	return app, nil
}

func inArea(app model.Application, area string) bool {
	return app.Area == model.CrossArea || (area != "" && app.Area == area)
}

// ListForUser returns what the user may see. Applicants get their own
// records, committee members the reviewable records of their area plus
// cross area ones, and admins everything under the optional area filter.
func (uc *ApplicationUsecase) ListForUser(ctx context.Context, user model.User, area string) ([]model.Application, error) {
	switch user.Role {
	case model.RoleAdmin:
		return uc.portal.GetApplications(ctx, area)
	case model.RoleCommittee:
		apps, err := uc.portal.GetApplications(ctx, "")
		if err != nil {
			return nil, err
		}
		out := make([]model.Application, 0, len(apps))
		for _, app := range apps {
			if inArea(app, user.Area) && lifecycle.IsReviewable(app.Status) {
				out = append(out, app)
			}
		}
		return out, nil
	case model.RoleApplicant:
		apps, err := uc.portal.GetApplications(ctx, "")
		if err != nil {
			return nil, err
		}
		out := make([]model.Application, 0, len(apps))
		for _, app := range apps {
			if app.UserID == user.UID {
				out = append(out, app)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown role %q", apperror.ErrForbidden, user.Role)
}

// Get returns one application if the user is allowed to see it.
func (uc *ApplicationUsecase) Get(ctx context.Context, user model.User, id string) (*model.Application, error) {
	app, err := uc.portal.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	switch user.Role {
	case model.RoleAdmin:
		return app, nil
	case model.RoleCommittee:
		if inArea(*app, user.Area) && lifecycle.IsReviewable(app.Status) {
			return app, nil
		}
	case model.RoleApplicant:
		if app.UserID == user.UID {
			return app, nil
		}
	}
	return nil, fmt.Errorf("%w: application %s", apperror.ErrForbidden, id)
}

func (uc *ApplicationUsecase) Delete(ctx context.Context, id string) error {
	if err := uc.portal.DeleteApplication(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("application deleted", zap.String("id", id))
	return nil
}
