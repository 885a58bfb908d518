package security

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"mrplan/internal/repository"
	"mrplan/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	jwtSecretMu sync.Mutex
	jwtSecret   []byte
)

// jwtSigningSecret resolves JWT_SECRET on first use. Resolution happens
// lazily so importing this package never requires the variable to be set.
func jwtSigningSecret() ([]byte, error) {
	jwtSecretMu.Lock()
	defer jwtSecretMu.Unlock()

	if len(jwtSecret) != 0 {
		return jwtSecret, nil
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		_ = godotenv.Load()
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}

	jwtSecret = []byte(secret)
	return jwtSecret, nil
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.Select("id", "username", "password_hash", "role").From("users").Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID string, role string, username string) (string, error) {
	secret, err := jwtSigningSecret()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func GetUserIDFromToken(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", fmt.Errorf("no authenticated user in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("userID is not a string")
	}

	return id, nil
}
