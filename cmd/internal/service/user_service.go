package service

import (
	"errors"
	"strings"
	"time"

	"notesapi/cmd/internal/contract"
	"notesapi/cmd/internal/domain/entity"
	"notesapi/cmd/internal/utils"
	"notesapi/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Create(user *entity.User) error
}

type TokenIssuer interface {
	Issue(sub, email string) (string, error)
	TTL() time.Duration
}

// dummyHash is compared against when the email is unknown, so a failed login
// costs the same whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type UserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Tokens   TokenIssuer
	HashCost int
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, tokens TokenIssuer) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Validate: validate,
		Tokens:   tokens,
		HashCost: bcrypt.DefaultCost,
	}
}

// CreateUser registers a local account. Emails are compared case-insensitively.
func (u *UserService) CreateUser(req *contract.CreateUserRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := u.Validate.Struct(req); err != nil {
		return nil, validationFailure(err)
	}

	found, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}

	if found {
		return nil, apierror.UserAlreadyExistsError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), u.HashCost)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	user := &entity.User{
		SubUUID:      uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err = u.UserRepo.Create(user); err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}
	return ToUserResponse(user), nil
}

func (u *UserService) Login(req *contract.UserLoginRequest) (*contract.UserLoginResponse, apierror.ErrorResponse) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := u.Validate.Struct(req); err != nil {
		return nil, validationFailure(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, apierror.CredentialsMismatchError
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, apierror.CredentialsMismatchError
	}

	if err != nil {
		log.Errorf("failed to compare password of user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	token, err := u.Tokens.Issue(user.SubUUID, user.Email)
	if err != nil {
		log.Errorf("failed to issue token for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	return &contract.UserLoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(u.Tokens.TTL().Seconds()),
	}, nil
}

func ToUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
	}
}
