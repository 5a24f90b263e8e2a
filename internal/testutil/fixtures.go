package testutil

import (
	"time"

	"github.com/brandsync/brandsync/internal/domain/application"
	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/brandsync/brandsync/internal/domain/profile"
	"github.com/brandsync/brandsync/internal/domain/task"
	"github.com/google/uuid"
)

// NewTestProfile builds a profile with a complete contact block, past the
// onboarding wizard.
func NewTestProfile(role profile.Role, balanceCents int64) *profile.Profile {
	now := time.Now()
	return &profile.Profile{
		ID:   uuid.New(),
		Role: role,
		Contact: profile.Contact{
			FirstName: "Nimal",
			LastName:  "Perera",
			Email:     "nimal@example.com",
			Phone:     "+94771234567",
			Address:   "12 Galle Road",
			City:      "Colombo",
			Country:   "Sri Lanka",
		},
		Balance:    balanceCents,
		Version:    0,
		Onboarding: profile.OnboardingComplete,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewTestTask builds a priced task in the given status for the given owner.
func NewTestTask(ownerID uuid.UUID, status task.Status, targets ...task.PlatformTarget) *task.Task {
	if len(targets) == 0 {
		targets = []task.PlatformTarget{{
			Platform:       pricing.PlatformYouTube,
			TargetViews:    10000,
			DeadlineOption: pricing.Deadline1Week,
		}}
	}
	t, err := task.New(ownerID, "Test campaign", "promo views", targets, pricing.DefaultRateCard(), time.Now())
	if err != nil {
		panic(err)
	}
	t.Status = status
	return t
}

// NewTestApplication builds an application in the given status.
func NewTestApplication(taskID, influencerID uuid.UUID, status application.Status) *application.Application {
	a, err := application.New(taskID, influencerID, []application.Promise{{
		Platform:       pricing.PlatformYouTube,
		PromisedViews:  5000,
		DeadlineOption: pricing.Deadline1Week,
	}}, "I can deliver this", pricing.DefaultRateCard())
	if err != nil {
		panic(err)
	}
	a.Status = status
	return a
}

// UUIDPtr returns a pointer to the given UUID.
func UUIDPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
