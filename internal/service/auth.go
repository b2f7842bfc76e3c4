package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"park-with-ease/internal/database"
	"park-with-ease/internal/model"
	"park-with-ease/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
)

const minPasswordLength = 6

var (
	getUserByID       = store.GetUserByID
	getUserByUsername = store.GetUserByUsername
	usernameTaken     = store.UsernameTaken
	emailTaken        = store.EmailTaken
	adminExists       = store.AdminExists
	createUser        = store.CreateUser

	validate = validator.New()
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register 建立一般使用者帳號；email 以小寫儲存。
func Register(ctx context.Context, db database.Querier, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, ValidationError{Msg: "Missing fields"}
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, ValidationError{Msg: "Invalid email format", Err: err}
	}
	if len(in.Password) < minPasswordLength {
		return nil, ValidationError{Msg: fmt.Sprintf("Password must be at least %d characters", minPasswordLength)}
	}

	taken, err := usernameTaken(ctx, db, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ValidationError{Msg: "Username exists"}
	}
	taken, err = emailTaken(ctx, db, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ValidationError{Msg: "Email exists"}
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := createUser(ctx, db, &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	})
	if err != nil {
		// 併發註冊時由 unique index 擋下
		if constraint, ok := store.UniqueViolation(err); ok {
			if strings.Contains(constraint, "email") {
				return nil, ValidationError{Msg: "Email exists", Err: err}
			}
			return nil, ValidationError{Msg: "Username exists", Err: err}
		}
		return nil, err
	}
	return user, nil
}

// Login 驗證帳密並發行 TokenTTL 有效的存取令牌
func Login(ctx context.Context, db database.Querier, username, password string) (string, *model.User, error) {
	user, err := getUserByUsername(ctx, db, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, AuthError{Msg: "Invalid credentials"}
		}
		return "", nil, err
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return "", nil, AuthError{Msg: "Invalid credentials"}
	}

	token, err := IssueAccessToken(*user, TokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Authenticate 解析 bearer token 並載入目前的使用者
func Authenticate(ctx context.Context, db database.Querier, token string) (*model.User, error) {
	if token == "" {
		return nil, AuthError{Msg: "Token missing"}
	}
	claims, err := VerifyAccessToken(token)
	if err != nil {
		return nil, AuthError{Msg: "Invalid or expired token", Err: err}
	}
	user, err := getUserByID(ctx, db, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, AuthError{Msg: "Invalid user", Err: err}
		}
		return nil, err
	}
	return user, nil
}

func AuthorizeAdmin(user *model.User) error {
	if user == nil || !user.IsAdmin() {
		return AuthError{Msg: "Admin required", Forbidden: true}
	}
	return nil
}

// EnsureAdmin 在沒有任何管理員時建立預設管理員，回傳是否有建立。
func EnsureAdmin(ctx context.Context, db database.Querier, username, email, password string) (bool, error) {
	exists, err := adminExists(ctx, db)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := createUser(ctx, db, &model.User{
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}); err != nil {
		return false, fmt.Errorf("EnsureAdmin: %w", err)
	}
	return true, nil
}
