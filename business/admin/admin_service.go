package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wildNest/domain"
	"wildNest/pkg/logger"
	"wildNest/pkg/utils"
)

// AdminRepository contract interface
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.AdminUser) error
	FindByID(ctx context.Context, id uint) (domain.AdminUser, error)
	FindByUsername(ctx context.Context, username string) (domain.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

// TokenStore keeps issued tokens so they can be revoked before expiry.
type TokenStore interface {
	StoreToken(ctx context.Context, userID, token string, data domain.TokenData, ttl time.Duration) error
	RevokeToken(ctx context.Context, userID string) error
}

type adminService struct {
	adminRepo  AdminRepository
	tokenStore TokenStore
	now        func() time.Time
}

func NewAdminService(adminRepo AdminRepository, tokenStore TokenStore) *adminService {
	return &adminService{
		adminRepo:  adminRepo,
		tokenStore: tokenStore,
		now:        time.Now,
	}
}

func (s *adminService) Login(ctx context.Context, username, password, ip, userAgent string) (string, domain.AdminUser, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.AdminUser{}, fmt.Errorf("context error: %w", err)
	}

	admin, err := s.adminRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		logger.Error("Invalid admin credentials", err)
		if errors.Is(err, domain.ErrAdminNotFound) {
			return "", domain.AdminUser{}, domain.ErrInvalidCredential
		}
		return "", domain.AdminUser{}, err
	}

	if !utils.CheckPassword(password, admin.Password) {
		logger.Error("Admin password incorrect", "username", admin.Username)
		return "", domain.AdminUser{}, domain.ErrInvalidCredential
	}

	userID := strconv.FormatUint(uint64(admin.ID), 10)
	token, err := utils.GenerateJWT(userID, admin.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.AdminUser{}, errors.New("failed to generate token")
	}

	now := s.now()
	ttl := utils.TokenTTL()
	err = s.tokenStore.StoreToken(ctx, userID, token, domain.TokenData{
		UserID:    userID,
		Role:      admin.Role,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		IPAddress: ip,
		UserAgent: userAgent,
	}, ttl)
	if err != nil {
		logger.Error("Failed to store token", err)
		return "", domain.AdminUser{}, fmt.Errorf("failed to store token: %w", err)
	}

	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		logger.Warn("Failed to update last login", err)
	} else {
		admin.LastLoginAt = &now
	}

	logger.Info("admin logged in", "admin_id", admin.ID)

	return token, admin, nil
}

func (s *adminService) Logout(ctx context.Context, adminID uint) error {
	if adminID == 0 {
		return domain.ErrInvalidID
	}

	if err := s.tokenStore.RevokeToken(ctx, strconv.FormatUint(uint64(adminID), 10)); err != nil {
		logger.Error("Failed to revoke token", err)
		return err
	}

	logger.Info("admin logged out", "admin_id", adminID)
	return nil
}

func (s *adminService) Me(ctx context.Context, adminID uint) (domain.AdminUser, error) {
	if adminID == 0 {
		return domain.AdminUser{}, domain.ErrInvalidID
	}

	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		logger.Error("Failed to find admin", err)
		return domain.AdminUser{}, err
	}

	return admin, nil
}

// EnsureAdmin creates the bootstrap account unless it already exists.
func (s *adminService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	_, err := s.adminRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrAdminNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.adminRepo.Create(ctx, &domain.AdminUser{
		Username: username,
		Password: hashed,
		Role:     domain.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	logger.Info("bootstrap admin created", "username", username)
	return nil
}
