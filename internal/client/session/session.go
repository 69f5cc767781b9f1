// Package session guarda el estado de autenticación del cliente en memoria: LOGIN y LOGOUT, sin persistencia.
package session

import (
	"sync"

	"livestock-records/internal/domain/users"
)

type State struct {
	IsAuthenticated bool
	User            *users.User
	Token           string
}

type ActionType string

const (
	Login  ActionType = "LOGIN"
	Logout ActionType = "LOGOUT"
)

type Action struct {
	Type  ActionType
	User  *users.User
	Token string
}

// Reduce es puro: acciones desconocidas devuelven el estado sin cambios.
func Reduce(s State, a Action) State {
	switch a.Type {
	case Login:
		var u *users.User
		if a.User != nil {
			cp := *a.User
			u = &cp
		}
		return State{IsAuthenticated: true, User: u, Token: a.Token}
	case Logout:
		return State{}
	default:
		return s
	}
}

// Store comparte el estado entre vistas. Los suscriptores se llaman fuera del lock.
type Store struct {
	mu    sync.RWMutex
	state State
	subs  map[int]func(State)
	next  int
}

func NewStore() *Store {
	return &Store{subs: map[int]func(State){}}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	st := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
	return st
}

// Subscribe devuelve la función para desuscribirse.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
