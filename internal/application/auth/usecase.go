package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
	"github.com/tu-usuario/farmasync-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// SignupTxRunner ejecuta el alta de farmacia + sucursal + admin en una
// transacción: o se crean las tres o ninguna.
type SignupTxRunner interface {
	RunSignup(ctx context.Context, fn func(
		pharmacyRepo repository.PharmacyRepository,
		branchRepo repository.BranchRepository,
		userRepo repository.UserRepository,
	) error) error
}

// AuthUseCase casos de uso de autenticación: signup y login.
type AuthUseCase struct {
	txRunner SignupTxRunner
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(txRunner SignupTxRunner, userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{txRunner: txRunner, userRepo: userRepo, jwtCfg: jwtCfg}
}

// Signup registra una farmacia nueva con su primera sucursal y el usuario
// administrador. Hashea el password con bcrypt y emite el token de acceso.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.LoginResponse, error) {
	if in.Email == "" || in.Password == "" || in.PharmacyName == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	pharmacy := &entity.Pharmacy{ID: uuid.New().String(), Name: in.PharmacyName, CreatedAt: now, UpdatedAt: now}
	branch := &entity.Branch{
		ID: uuid.New().String(), PharmacyID: pharmacy.ID,
		Name: in.BranchName, Code: in.BranchCode,
		CreatedAt: now, UpdatedAt: now,
	}
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		PharmacyID:   pharmacy.ID,
		BranchID:     branch.ID,
		Name:         name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunSignup(ctx, func(
		pharmacyRepo repository.PharmacyRepository,
		branchRepo repository.BranchRepository,
		userRepo repository.UserRepository,
	) error {
		if err := pharmacyRepo.Create(pharmacy); err != nil {
			return err
		}
		if err := branchRepo.Create(branch); err != nil {
			return err
		}
		return userRepo.Create(user)
	})
	if err != nil {
		return nil, err
	}

	return uc.tokenResponse(user)
}

// Login verifica email/password y emite el token de acceso.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.tokenResponse(user)
}

func (uc *AuthUseCase) tokenResponse(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(jwt.GenerateInput{
		Secret:     uc.jwtCfg.Secret,
		UserID:     user.ID,
		PharmacyID: user.PharmacyID,
		BranchID:   user.BranchID,
		Role:       user.Role,
		Issuer:     uc.jwtCfg.Issuer,
		ExpMinutes: uc.jwtCfg.ExpMinutes,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		User: dto.UserResponse{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Role:       user.Role,
			PharmacyID: user.PharmacyID,
			BranchID:   user.BranchID,
		},
	}, nil
}
