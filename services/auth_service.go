package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"photoquiz/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const tokenTTL = 7 * 24 * time.Hour

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	google    *oauth2.Config // nil when Google sign-in is not configured
}

func NewAuthService(db *gorm.DB, jwtSecret string, google *oauth2.Config) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		google:    google,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(req *RegisterRequest) (*models.User, string, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) Login(req *LoginRequest) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	// Users created via an external provider have no password credential.
	if user.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken verifies a session token and returns the user it belongs to.
// Any verification failure is indistinguishable from "no session".
func (s *AuthService) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return "", ErrInvalidCredentials
	}
	return claims.UserID, nil
}

// GoogleAuthURL builds the consent-screen redirect for Google sign-in.
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", errors.New("google sign-in is not configured")
	}
	return s.google.AuthCodeURL(state), nil
}

type googleUserInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleSignIn exchanges an OAuth authorization code, resolves or creates
// the matching user, and mints a session token for them.
func (s *AuthService) GoogleSignIn(ctx context.Context, code string) (*models.User, string, error) {
	if s.google == nil {
		return nil, "", errors.New("google sign-in is not configured")
	}

	tok, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("code exchange failed: %w", err)
	}

	resp, err := s.google.Client(ctx, tok).Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil {
		return nil, "", fmt.Errorf("userinfo fetch failed: %w", err)
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, "", fmt.Errorf("userinfo decode failed: %w", err)
	}
	if info.Sub == "" || info.Email == "" {
		return nil, "", errors.New("incomplete userinfo response")
	}

	user, err := s.findOrCreateGoogleUser(&info)
	if err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) findOrCreateGoogleUser(info *googleUserInfo) (*models.User, error) {
	var user models.User
	err := s.db.Where("provider = ? AND provider_id = ?", "google", info.Sub).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Link to an existing local account with the same email, if any.
	err = s.db.Where("email = ?", info.Email).First(&user).Error
	if err == nil {
		user.Provider = "google"
		user.ProviderID = info.Sub
		if err := s.db.Save(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		Name:       info.Name,
		Email:      info.Email,
		Provider:   "google",
		ProviderID: info.Sub,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
