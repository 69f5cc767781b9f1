package users

import (
	"context"
	"errors"
	"fmt"

	"livestock-records/internal/platform/logger"
	"livestock-records/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// HashCost es el costo bcrypt de los hashes nuevos.
const HashCost = 10

type Service struct {
	coll store.Collection
	log  logger.Logger
	cost int
}

// NewService asegura el índice único de Users.email; el alta no depende de leer-antes-de-escribir.
func NewService(ctx context.Context, st store.Store, log logger.Logger) (*Service, error) {
	if err := st.EnsureUniqueIndex(ctx, Collection, EmailField); err != nil {
		return nil, fmt.Errorf("users: ensure index: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		coll: st.Collection(Collection),
		log:  log.With(map[string]any{"collection": Collection}),
		cost: HashCost,
	}, nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if err := in.Validate(); err != nil {
		return User{}, err
	}

	_, err := s.coll.FindOne(ctx, EmailField, in.Email)
	switch {
	case err == nil:
		return User{}, ErrEmailTaken
	case !errors.Is(err, store.ErrNotFound):
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(in.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	acc := account{
		User:         User{Email: in.Email, Role: in.Role},
		PasswordHash: string(hash),
	}
	id, err := s.coll.InsertOne(ctx, acc.document())
	if errors.Is(err, store.ErrDuplicateKey) {
		return User{}, ErrEmailTaken
	}
	if err != nil {
		return User{}, err
	}
	acc.ID = id

	s.log.Info("user registered", map[string]any{"id": id, "role": string(acc.Role)})
	return acc.User, nil
}

// SignIn no distingue email desconocido de password incorrecto hacia afuera; el log sí.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (User, error) {
	if err := in.Validate(); err != nil {
		return User{}, err
	}

	doc, err := s.coll.FindOne(ctx, EmailField, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Info("signin rejected", map[string]any{"reason": "user not found"})
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	acc := accountFromDocument(doc)
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), passwordBytes(in.Password)); err != nil {
		s.log.Info("signin rejected", map[string]any{"reason": "password does not match", "id": acc.ID})
		return User{}, ErrInvalidCredentials
	}

	return acc.User, nil
}
