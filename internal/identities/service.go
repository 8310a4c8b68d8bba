package identities

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aidin1998/foodgram/common/auth"
	"github.com/Aidin1998/foodgram/common/dbutil"
	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/Aidin1998/foodgram/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// IdentityService defines user, token and subscription operations.
// A viewer id of 0 means an anonymous caller.
type IdentityService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	SetPassword(ctx context.Context, userID uint, req *models.SetPasswordRequest) error

	GetUser(ctx context.Context, viewerID, userID uint) (*models.UserResponse, error)
	ListUsers(ctx context.Context, viewerID uint, page, limit int) ([]models.UserResponse, int64, error)

	Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*models.AuthorResponse, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	ListSubscriptions(ctx context.Context, userID uint, page, limit, recipesLimit int) ([]models.AuthorResponse, int64, error)
}

// Service implements IdentityService
type Service struct {
	logger   *zap.Logger
	db       *gorm.DB
	tokens   *auth.TokenManager
	hashCost int
}

var _ IdentityService = (*Service)(nil)

// NewService creates a new IdentityService
func NewService(logger *zap.Logger, db *gorm.DB, tokens *auth.TokenManager) *Service {
	return &Service{
		logger:   logger,
		db:       db,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
}

// Register registers a new user
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	db := s.db.WithContext(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := dbutil.Exists(db.Model(&models.User{}).Where("email = ?", email))
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, errors.Invalid.Explain("user with this email already exists").
			WithField("unique", "email", "user with this email already exists")
	}

	taken, err = dbutil.Exists(db.Model(&models.User{}).Where("username = ?", req.Username))
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, errors.Invalid.Explain("user with this username already exists").
			WithField("unique", "username", "user with this username already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hashedPassword),
	}
	if err := db.Create(user).Error; err != nil {
		err = dbutil.WrapError(err)
		if errors.Is(err, errors.Conflict) {
			return nil, errors.Invalid.Explain("user with this email or username already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login checks the credentials and issues an auth token
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	badCredentials := errors.Invalid.Explain("unable to log in with provided credentials")

	user, err := dbutil.FindOne[models.User](s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))))
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			return nil, badCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, badCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{AuthToken: token}, nil
}

// Logout revokes the presented token
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}

// SetPassword replaces the password after checking the current one
func (s *Service) SetPassword(ctx context.Context, userID uint, req *models.SetPasswordRequest) error {
	db := s.db.WithContext(ctx)
	user, err := dbutil.FindOne[models.User](db.Where("id = ?", userID))
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return errors.Invalid.Explain("current password is incorrect").
			WithField("invalid", "current_password", "current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := db.Model(user).Update("password_hash", string(hashedPassword)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", dbutil.WrapError(err))
	}
	return nil
}

// GetUser returns the public view of a user
func (s *Service) GetUser(ctx context.Context, viewerID, userID uint) (*models.UserResponse, error) {
	db := s.db.WithContext(ctx)
	user, err := dbutil.FindOne[models.User](db.Where("id = ?", userID))
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			return nil, errors.NotFound.Explain("user not found")
		}
		return nil, err
	}

	subscribed, err := s.subscribedTo(db, viewerID, []uint{user.ID})
	if err != nil {
		return nil, err
	}
	resp := models.NewUserResponse(user, subscribed[user.ID])
	return &resp, nil
}

// ListUsers returns a page of users ordered by id
func (s *Service) ListUsers(ctx context.Context, viewerID uint, page, limit int) ([]models.UserResponse, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := db.Order("id").Scopes(dbutil.Paginate(page, limit)).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := s.subscribedTo(db, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	result := make([]models.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, models.NewUserResponse(&users[i], subscribed[users[i].ID]))
	}
	return result, total, nil
}

// subscribedTo reports which of the authors the viewer follows
func (s *Service) subscribedTo(db *gorm.DB, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(authorIDs))
	if viewerID == 0 || len(authorIDs) == 0 {
		return result, nil
	}

	var followed []uint
	err := db.Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", viewerID, authorIDs).
		Pluck("author_id", &followed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, id := range followed {
		result[id] = true
	}
	return result, nil
}
