package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"cozyminds/internal/engagement"
	"cozyminds/internal/metrics"
	"cozyminds/internal/models/db_models"
	"cozyminds/internal/models/request_models"
	"cozyminds/internal/models/response_models"
	"cozyminds/internal/repositories"
	mem "cozyminds/pkg/memcache"
	"cozyminds/pkg/utils"
)

type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	Logout(tokenID string, expiresAt time.Time)
	// GetProfile returns the account and registers the day's visit.
	GetProfile(ctx context.Context, accountID string) (*response_models.VisitResponse, error)
	UpdateProfile(ctx context.Context, accountID string, request request_models.UpdateProfileRequest) (*response_models.AccountResponse, error)
	ChangePassword(ctx context.Context, accountID string, request request_models.ChangePasswordRequest) error
	VerifyPassword(ctx context.Context, accountID string, password string) (bool, error)
	DeleteAccount(ctx context.Context, accountID string) error
	PromoteToAdmin(ctx context.Context, email string) error
}

// PasswordHasher is the part of utils.PasswordHasher the account service needs.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword string, plainPassword string) error
}

// loginDummyPassword is hashed once per service; unknown emails are compared against it so a
// failed login costs one hash whether or not the account exists.
const loginDummyPassword = "cozyminds-login-dummy"

type AccountService struct {
	accountRepo repositories.AccountRepository
	mailService IMailService
	hasher      PasswordHasher
	dummyHash   string
	tokens      *utils.TokenIssuer
	denylist    mem.TokenDenylist
	calendar    Calendar
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	mailService IMailService,
	hasher PasswordHasher,
	tokens *utils.TokenIssuer,
	denylist mem.TokenDenylist,
	calendar Calendar,
	m *metrics.Metrics,
	logger *zap.Logger,
) AccountServiceInterface {
	dummyHash, err := hasher.HashPassword(loginDummyPassword)
	if err != nil {
		logger.Error("login dummy hash unavailable", zap.Error(err))
	}
	return &AccountService{
		accountRepo: accountRepo,
		mailService: mailService,
		hasher:      hasher,
		dummyHash:   dummyHash,
		tokens:      tokens,
		denylist:    denylist,
		calendar:    calendar,
		metrics:     m,
		logger:      logger,
	}
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error) {
	email := normalizeEmail(request.Email)
	nickname := strings.TrimSpace(request.Nickname)
	if email == "" || !validNickname(nickname) || len(request.Password) < 6 {
		return nil, utils.ErrValidationFailed
	}

	existingAccount, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, dbErr(err)
	}
	if existingAccount != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := a.hasher.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	newAccount := &db_models.Account{
		Email:           email,
		Nickname:        nickname,
		PasswordHash:    hashedPassword,
		Role:            db_models.RoleUser,
		Age:             request.Age,
		Gender:          request.Gender,
		Subscribe:       request.Subscribe,
		ActiveTheme:     db_models.DefaultTheme,
		ActiveMailTheme: db_models.DefaultMailTheme,
	}

	if err := a.accountRepo.InsertTx(ctx, newAccount); err != nil {
		return nil, dbErr(err)
	}

	// Best effort: signup stands even when the welcome mail cannot be stored.
	if err := a.mailService.SendWelcomeMail(ctx, newAccount); err != nil {
		a.logger.Warn("welcome mail failed", zap.String("account_id", newAccount.ID.String()), zap.Error(err))
	}

	resp := toAccountResponse(newAccount, a.calendar.Location)
	return &resp, nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	account, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return nil, dbErr(err)
	}

	// Unknown email and wrong password are indistinguishable to the caller, in time as well.
	if account == nil {
		_ = a.hasher.ComparePasswords(a.dummyHash, request.Password)
		return nil, utils.ErrInvalidCredentials
	}
	if err := a.hasher.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		if !errors.Is(err, utils.ErrInvalidCredentials) {
			a.logger.Error("stored password hash unusable", zap.String("account_id", account.ID.String()), zap.Error(err))
		}
		return nil, utils.ErrInvalidCredentials
	}

	account, outcome, err := a.registerVisit(ctx, account)
	if err != nil {
		return nil, err
	}

	token, err := a.tokens.CreateToken(account.ID, account.Role)
	if err != nil {
		return nil, err
	}

	return &response_models.AccountLoginResponse{
		Token:       token,
		ExpiresAt:   utils.FormatRFC3339(a.calendar.Now().Add(a.tokens.TTL()), a.calendar.Location),
		Account:     toAccountResponse(account, a.calendar.Location),
		CoinsEarned: outcome.CoinsEarned,
	}, nil
}

func (a *AccountService) Logout(tokenID string, expiresAt time.Time) {
	a.denylist.Revoke(tokenID, expiresAt)
}

func (a *AccountService) GetProfile(ctx context.Context, accountID string) (*response_models.VisitResponse, error) {
	account, err := a.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account, outcome, err := a.registerVisit(ctx, account)
	if err != nil {
		return nil, err
	}

	return &response_models.VisitResponse{
		Account:        toAccountResponse(account, a.calendar.Location),
		CoinsEarned:    outcome.CoinsEarned,
		StoryCompleted: outcome.StoryCompleted,
	}, nil
}

// registerVisit applies the daily visit to account, reloading and recomputing when a
// concurrent write bumped the version. Nothing is written when the day has not changed.
func (a *AccountService) registerVisit(ctx context.Context, account *db_models.Account) (*db_models.Account, engagement.VisitOutcome, error) {
	var outcome engagement.VisitOutcome
	current := account

	err := retryStale(ctx, a.logger, a.metrics, "visit", func() error {
		if current == nil {
			reloaded, err := a.load(ctx, account.ID.String())
			if err != nil {
				return err
			}
			current = reloaded
		}

		next, out := engagement.RecordVisit(visitState(current), a.calendar.Now(), a.calendar.Location)
		outcome = out
		if !out.NewDay {
			return nil
		}

		updated := *current
		applyVisitState(&updated, next)
		if err := a.accountRepo.UpdateState(ctx, &updated); err != nil {
			current = nil
			return dbErr(err)
		}
		current = &updated
		return nil
	})
	if err != nil {
		return nil, engagement.VisitOutcome{}, err
	}

	a.metrics.DailyCoinsGranted(outcome.CoinsEarned)
	if outcome.StoryCompleted {
		a.metrics.StoryCompleted()
	}
	return current, outcome, nil
}

func (a *AccountService) load(ctx context.Context, accountID string) (*db_models.Account, error) {
	account, err := a.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, dbErr(err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return account, nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, accountID string, request request_models.UpdateProfileRequest) (*response_models.AccountResponse, error) {
	account, err := a.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if request.Nickname != nil {
		nickname := strings.TrimSpace(*request.Nickname)
		if !validNickname(nickname) {
			return nil, utils.ErrValidationFailed
		}
		fields["nickname"] = nickname
		account.Nickname = nickname
	}
	if request.Email != nil {
		email := normalizeEmail(*request.Email)
		if email == "" {
			return nil, utils.ErrValidationFailed
		}
		if email != account.Email {
			other, err := a.accountRepo.FindByEmail(ctx, email)
			if err != nil {
				return nil, dbErr(err)
			}
			if other != nil && other.ID != account.ID {
				return nil, utils.ErrEmailAlreadyExists
			}
			fields["email"] = email
			account.Email = email
		}
	}
	if request.Age != nil {
		fields["age"] = *request.Age
		account.Age = request.Age
	}
	if request.Gender != nil {
		fields["gender"] = *request.Gender
		account.Gender = *request.Gender
	}
	if request.Subscribe != nil {
		fields["subscribe"] = *request.Subscribe
		account.Subscribe = *request.Subscribe
	}

	if err := a.accountRepo.UpdateProfile(ctx, accountID, fields); err != nil {
		return nil, dbErr(err)
	}

	resp := toAccountResponse(account, a.calendar.Location)
	return &resp, nil
}

func (a *AccountService) ChangePassword(ctx context.Context, accountID string, request request_models.ChangePasswordRequest) error {
	if len(request.NewPassword) < 6 {
		return utils.ErrValidationFailed
	}
	account, err := a.load(ctx, accountID)
	if err != nil {
		return err
	}
	if err := a.hasher.ComparePasswords(account.PasswordHash, request.CurrentPassword); err != nil {
		return utils.ErrInvalidCredentials
	}

	hashedPassword, err := a.hasher.HashPassword(request.NewPassword)
	if err != nil {
		return err
	}
	return dbErr(a.accountRepo.UpdatePassword(ctx, accountID, hashedPassword))
}

func (a *AccountService) VerifyPassword(ctx context.Context, accountID string, password string) (bool, error) {
	account, err := a.load(ctx, accountID)
	if err != nil {
		return false, err
	}
	return a.hasher.ComparePasswords(account.PasswordHash, password) == nil, nil
}

func (a *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	deleted, err := a.accountRepo.DeleteCascade(ctx, accountID)
	if err != nil {
		return dbErr(err)
	}
	if !deleted {
		return utils.ErrAccountNotFound
	}
	a.logger.Info("account deleted", zap.String("account_id", accountID))
	return nil
}

func (a *AccountService) PromoteToAdmin(ctx context.Context, email string) error {
	ok, err := a.accountRepo.SetRoleByEmail(ctx, normalizeEmail(email), db_models.RoleAdmin)
	if err != nil {
		return dbErr(err)
	}
	if !ok {
		return utils.ErrAccountNotFound
	}
	return nil
}
