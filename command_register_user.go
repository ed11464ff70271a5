package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RegisterUserMessage creates a new account. It follows the command-bus
// message convention: dispatchers route on Type and the caller receives the
// result through OnResponse.
type RegisterUserMessage struct {
	Name       string `json:"name" example:"Pepe Rone" doc:"Display name."`
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Unique account email."`
	Phone      string `json:"phone,omitempty" example:"+12125550100" doc:"Optional phone number."`
	Password   string `json:"password" doc:"Plain text password, hashed before storage."`
	OnResponse func(resp *RegisterUserResponse)
}

func (p RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserResponse struct {
	User    *User
	Success bool
}

type RegisterUserHandler struct {
	repo     RepositoryManager
	activity ActivitySink
}

func NewRegisterUserHandler(repo RepositoryManager, sink ActivitySink) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:     repo,
		activity: normalizeActivitySink(sink),
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	resp := &RegisterUserResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	hashed, err := HashPassword(event.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Name:         event.Name,
		Email:        event.Email,
		Phone:        NormalizePhone(event.Phone, ""),
		PasswordHash: hashed,
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := h.repo.Users().RegisterTx(ctx, tx, user)
		if err != nil {
			return err
		}
		resp.User = created
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to register user")
	}

	h.recordRegistration(ctx, resp.User)

	resp.Success = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

func (h *RegisterUserHandler) recordRegistration(ctx context.Context, user *User) {
	if user == nil {
		return
	}
	_ = h.activity.Record(ctx, ActivityEvent{
		EventType:  ActivityEventUserRegistered,
		UserID:     formatActivityUserID(user.ID),
		Email:      user.Email,
		OccurredAt: time.Now(),
	})
}
