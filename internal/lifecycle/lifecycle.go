// Package lifecycle holds the application status machine and reference
// code generation.
package lifecycle

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/model"
)

type transition struct {
	from  model.Status
	to    model.Status
	stage int // required stage, 0 = any
}

var transitions = []transition{
	{from: model.StatusDraft, to: model.StatusSubmittedStage1, stage: 1},
	{from: model.StatusSubmittedStage1, to: model.StatusInvitedStage2},
	{from: model.StatusInvitedStage2, to: model.StatusDraft},
	{from: model.StatusDraft, to: model.StatusSubmittedStage2, stage: 2},
	{from: model.StatusSubmittedStage2, to: model.StatusFinalist},
}

// ReviewableStatuses are the statuses committee members score.
var ReviewableStatuses = []model.Status{
	model.StatusSubmittedStage1,
	model.StatusInvitedStage2,
	model.StatusSubmittedStage2,
	model.StatusFinalist,
}

func IsReviewable(s model.Status) bool {
	for _, r := range ReviewableStatuses {
		if r == s {
			return true
		}
	}
	return false
}

func ValidStatus(s model.Status) bool {
	return s == model.StatusDraft || IsReviewable(s)
}

// CanTransition reports whether an application at the given stage may move
// from one status to another.
func CanTransition(from, to model.Status, stage int) bool {
	for _, t := range transitions {
		if t.from == from && t.to == to && (t.stage == 0 || t.stage == stage) {
			return true
		}
	}
	return false
}

// Transition applies the status change to app. Entering Draft from an
// invitation moves the application to stage 2.
func Transition(app *model.Application, to model.Status) error {
	from := app.Status
	stage := app.CurrentStage()
	if !CanTransition(from, to, stage) {
		return fmt.Errorf("%w: %s -> %s (stage %d)", apperror.ErrInvalidTransition, from, to, stage)
	}
	if from == model.StatusInvitedStage2 && to == model.StatusDraft {
		stage = 2
	}
	app.Status = to
	app.Stage = stage
	return nil
}

var referencePattern = regexp.MustCompile(`^PB-[A-Z]{3}-\d{3}$`)

func ValidReference(ref string) bool {
	return referencePattern.MatchString(ref)
}

// AreaCode is the first three letters of the area, upper-cased and padded
// with X when the area is too short.
func AreaCode(area string) string {
	var b strings.Builder
	for _, r := range area {
		if b.Len() == 3 {
			break
		}
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	for b.Len() < 3 {
		b.WriteByte('X')
	}
	return b.String()
}

// GenerateReference returns PB-<AREA>-<NNN> with NNN drawn from 100..999.
// A nil rng uses the global source.
func GenerateReference(area string, rng *rand.Rand) string {
	var n int
	if rng != nil {
		n = 100 + rng.IntN(900)
	} else {
		n = 100 + rand.IntN(900)
	}
	return fmt.Sprintf("PB-%s-%03d", AreaCode(area), n)
}
