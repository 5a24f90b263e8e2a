package controller

import (
	"time"

	"github.com/brandsync/brandsync/internal/domain/application"
	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/brandsync/brandsync/internal/domain/profile"
	"github.com/brandsync/brandsync/internal/domain/task"
	"github.com/brandsync/brandsync/internal/domain/views"
)

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns (shorthand view counts, string IDs,
// validation tags). Controllers convert these to service layer DTOs before
// calling business logic.

// TargetPayload is one requested platform target. TargetViews accepts the
// shorthand notation ("10K", "1.5M") as well as plain integers.
type TargetPayload struct {
	Platform       string `json:"platform" validate:"required"`
	TargetViews    string `json:"target_views" validate:"required"`
	DeadlineOption string `json:"deadline_option" validate:"required"`
}

// CreateTaskRequest holds the input for creating a campaign task.
type CreateTaskRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Targets     []TargetPayload `json:"targets" validate:"required,min=1,dive"`
}

// EstimateCostRequest prices prospective targets without persisting anything.
type EstimateCostRequest struct {
	Targets  []TargetPayload `json:"targets" validate:"required,min=1,dive"`
	Audience string          `json:"audience" validate:"omitempty,oneof=buyer influencer"`
}

// PromisePayload is one promised platform delivery within an application.
type PromisePayload struct {
	Platform       string `json:"platform" validate:"required"`
	PromisedViews  string `json:"promised_views" validate:"required"`
	DeadlineOption string `json:"deadline_option" validate:"required"`
}

// ApplyRequest holds the input for applying to a task.
type ApplyRequest struct {
	TaskID   string           `json:"task_id" validate:"required,uuid"`
	Message  string           `json:"message" validate:"max=2000"`
	Promises []PromisePayload `json:"promises" validate:"required,min=1,dive"`
}

// ProofPayload is one piece of submitted evidence.
type ProofPayload struct {
	Platform string `json:"platform" validate:"required"`
	Kind     string `json:"kind" validate:"required,oneof=url image"`
	Value    string `json:"value" validate:"required"`
}

// SubmitProofRequest holds the proof set for a submitted application.
type SubmitProofRequest struct {
	Proofs []ProofPayload `json:"proofs" validate:"required,min=1,dive"`
}

// CreateProfileRequest registers a marketplace participant. Contact fields
// may be partial at signup; the onboarding wizard collects the rest.
type CreateProfileRequest struct {
	Role      string `json:"role" validate:"required,oneof=brand influencer"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=20"`
	Address   string `json:"address" validate:"max=200"`
	City      string `json:"city" validate:"max=100"`
	Country   string `json:"country" validate:"max=100"`
}

// UpdateContactRequest replaces the profile contact block.
type UpdateContactRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Address   string `json:"address" validate:"max=200"`
	City      string `json:"city" validate:"max=100"`
	Country   string `json:"country" validate:"max=100"`
}

// RegisterSlipRequest records a bank transfer receipt for review.
type RegisterSlipRequest struct {
	SlipURL string `json:"slip_url" validate:"required,url"`
}

// ReviewSlipRequest resolves a pending bank slip.
type ReviewSlipRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Note     string `json:"note" validate:"max=1000"`
}

// WithdrawalRequest cashes out earned balance. Amount is in LKR.
type WithdrawalRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	BankDetails string  `json:"bank_details" validate:"required,max=500"`
}

// ResolveWithdrawalRequest settles a pending withdrawal.
type ResolveWithdrawalRequest struct {
	Decision string `json:"decision" validate:"required,oneof=paid rejected"`
	Note     string `json:"note" validate:"max=1000"`
}

// --- Response DTOs ---

// TargetResponse is one platform target in API responses. ViewsLabel carries
// the shorthand rendering ("10K") for display.
type TargetResponse struct {
	Platform       string     `json:"platform"`
	TargetViews    int64      `json:"target_views"`
	ViewsLabel     string     `json:"views_label"`
	DeadlineOption string     `json:"deadline_option"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}

// CostResponse is the server-authoritative cost record. Amounts are decimal
// strings in LKR.
type CostResponse struct {
	Base   string     `json:"base"`
	Fee    string     `json:"fee"`
	Total  string     `json:"total"`
	IsPaid bool       `json:"is_paid"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
	Method string     `json:"method,omitempty"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          string           `json:"id"`
	OwnerID     string           `json:"owner_id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Targets     []TargetResponse `json:"targets"`
	Cost        CostResponse     `json:"cost"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// EstimateResponse is a cost breakdown for prospective targets.
type EstimateResponse struct {
	Base  string `json:"base"`
	Fee   string `json:"fee"`
	Total string `json:"total"`
}

// PromiseResponse is one promise in API responses.
type PromiseResponse struct {
	Platform          string `json:"platform"`
	PromisedViews     int64  `json:"promised_views"`
	ViewsLabel        string `json:"views_label"`
	DeadlineOption    string `json:"deadline_option"`
	EstimatedEarnings string `json:"estimated_earnings"`
}

// ApplicationResponse represents an application in API responses.
type ApplicationResponse struct {
	ID            string            `json:"id"`
	TaskID        string            `json:"task_id"`
	InfluencerID  string            `json:"influencer_id"`
	Promises      []PromiseResponse `json:"promises"`
	Message       string            `json:"message,omitempty"`
	Status        string            `json:"status"`
	TotalEarnings string            `json:"total_earnings"`
	PayoutDone    bool              `json:"payout_done"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ProofResponse represents a submitted proof.
type ProofResponse struct {
	ID          string    `json:"id"`
	Platform    string    `json:"platform"`
	Kind        string    `json:"kind"`
	Value       string    `json:"value"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ProfileResponse represents a profile in API responses. Balance is a
// decimal string in LKR.
type ProfileResponse struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	Country    string    `json:"country,omitempty"`
	Balance    string    `json:"balance"`
	Onboarding string    `json:"onboarding"`
	Suspended  bool      `json:"suspended"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SlipResponse represents a bank slip in API responses.
type SlipResponse struct {
	ID         string     `json:"id"`
	TaskID     string     `json:"task_id"`
	UploaderID string     `json:"uploader_id"`
	SlipURL    string     `json:"slip_url"`
	Status     string     `json:"status"`
	Note       *string    `json:"note,omitempty"`
	ReviewedBy *string    `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// WithdrawalResponse represents a withdrawal request in API responses.
type WithdrawalResponse struct {
	ID         string     `json:"id"`
	ProfileID  string     `json:"profile_id"`
	Amount     string     `json:"amount"`
	Status     string     `json:"status"`
	Note       *string    `json:"note,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Conversion helpers ---

// FromTask converts a domain task to API response.
func FromTask(t *task.Task) *TaskResponse {
	targets := make([]TargetResponse, 0, len(t.Targets))
	for _, pt := range t.Targets {
		targets = append(targets, TargetResponse{
			Platform:       string(pt.Platform),
			TargetViews:    pt.TargetViews,
			ViewsLabel:     views.Format(pt.TargetViews),
			DeadlineOption: string(pt.DeadlineOption),
			Deadline:       pt.Deadline,
		})
	}
	return &TaskResponse{
		ID:          t.ID.String(),
		OwnerID:     t.OwnerID.String(),
		Title:       t.Title,
		Description: t.Description,
		Targets:     targets,
		Cost: CostResponse{
			Base:   t.Cost.Base.StringFixed(2),
			Fee:    t.Cost.Fee.StringFixed(2),
			Total:  t.Cost.Total.StringFixed(2),
			IsPaid: t.Cost.IsPaid,
			PaidAt: t.Cost.PaidAt,
			Method: string(t.Cost.Method),
		},
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
}

// FromApplication converts a domain application to API response.
func FromApplication(a *application.Application) *ApplicationResponse {
	promises := make([]PromiseResponse, 0, len(a.Promises))
	for _, p := range a.Promises {
		promises = append(promises, PromiseResponse{
			Platform:          string(p.Platform),
			PromisedViews:     p.PromisedViews,
			ViewsLabel:        views.Format(p.PromisedViews),
			DeadlineOption:    string(p.DeadlineOption),
			EstimatedEarnings: p.EstimatedEarnings.StringFixed(2),
		})
	}
	return &ApplicationResponse{
		ID:            a.ID.String(),
		TaskID:        a.TaskID.String(),
		InfluencerID:  a.InfluencerID.String(),
		Promises:      promises,
		Message:       a.Message,
		Status:        string(a.Status),
		TotalEarnings: a.TotalEarnings().StringFixed(2),
		PayoutDone:    a.PayoutDone,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// FromProof converts a domain proof to API response.
func FromProof(p *application.Proof) *ProofResponse {
	return &ProofResponse{
		ID:          p.ID.String(),
		Platform:    string(p.Platform),
		Kind:        string(p.Kind),
		Value:       p.Value,
		SubmittedAt: p.SubmittedAt,
	}
}

// FromProfile converts a domain profile to API response.
func FromProfile(p *profile.Profile) *ProfileResponse {
	return &ProfileResponse{
		ID:         p.ID.String(),
		Role:       string(p.Role),
		FirstName:  p.Contact.FirstName,
		LastName:   p.Contact.LastName,
		Email:      p.Contact.Email,
		Phone:      p.Contact.Phone,
		Address:    p.Contact.Address,
		City:       p.Contact.City,
		Country:    p.Contact.Country,
		Balance:    pricing.FromCents(p.Balance).StringFixed(2),
		Onboarding: string(p.Onboarding),
		Suspended:  p.Suspended,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// FromSlip converts a domain bank slip to API response.
func FromSlip(s *task.BankSlip) *SlipResponse {
	resp := &SlipResponse{
		ID:         s.ID.String(),
		TaskID:     s.TaskID.String(),
		UploaderID: s.UploaderID.String(),
		SlipURL:    s.SlipURL,
		Status:     string(s.Status),
		Note:       s.Note,
		ReviewedAt: s.ReviewedAt,
		CreatedAt:  s.CreatedAt,
	}
	if s.ReviewedBy != nil {
		rb := s.ReviewedBy.String()
		resp.ReviewedBy = &rb
	}
	return resp
}

// FromWithdrawal converts a domain withdrawal to API response.
func FromWithdrawal(w *profile.Withdrawal) *WithdrawalResponse {
	return &WithdrawalResponse{
		ID:         w.ID.String(),
		ProfileID:  w.ProfileID.String(),
		Amount:     pricing.FromCents(w.AmountCents).StringFixed(2),
		Status:     string(w.Status),
		Note:       w.Note,
		ResolvedAt: w.ResolvedAt,
		CreatedAt:  w.CreatedAt,
	}
}
