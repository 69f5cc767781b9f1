// Package api es el cliente Go de la API de registros: un Resource tipado por entidad más registro e inicio de sesión.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"livestock-records/internal/domain/breeds"
	"livestock-records/internal/domain/medicines"
	"livestock-records/internal/domain/records"
	"livestock-records/internal/domain/tags"
	"livestock-records/internal/domain/users"
	"livestock-records/internal/domain/vendors"
	"livestock-records/internal/platform/httpclient"
)

// MsgServerUnavailable es el texto que ve el usuario cuando no hubo respuesta.
const MsgServerUnavailable = "Server is not responding. Please try again later."

var ErrServerUnavailable = errors.New("server not responding")

// RequestError es una respuesta 4xx/5xx del servidor.
type RequestError struct {
	StatusCode int
	// Message es el texto del servidor (message, msg o error, en ese orden), o el cuerpo crudo.
	Message string
	Fields  []users.FieldError
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		paths := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			paths = append(paths, f.Path)
		}
		return "invalid fields: " + strings.Join(paths, ", ")
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// MessageFor arma el texto del banner para err: el mensaje del servidor, el de servidor caído, o fallback.
func MessageFor(err error, fallback string) string {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		if reqErr.Message != "" {
			return reqErr.Message
		}
		if len(reqErr.Fields) > 0 {
			return reqErr.Error()
		}
	case errors.Is(err, ErrServerUnavailable):
		return MsgServerUnavailable
	}
	return fallback
}

type Client struct {
	http *httpclient.Client
}

// New recibe la URL base de la API incluyendo el prefijo (p.ej. http://localhost:5000/api).
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api: base url required")
	}
	hc, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

// NewWithHTTP envuelve un httpclient ya armado (tests, transports propios).
func NewWithHTTP(hc *httpclient.Client) *Client {
	return &Client{http: hc}
}

// SetToken agrega Authorization: Bearer a cada request. "" lo quita.
func (c *Client) SetToken(token string) {
	if token == "" {
		c.http.Header.Del("Authorization")
		return
	}
	c.http.Header.Set("Authorization", "Bearer "+token)
}

func (c *Client) Breeds() *Resource[breeds.Breed] {
	return &Resource[breeds.Breed]{c: c, path: "/breeds"}
}

func (c *Client) Medicines() *Resource[medicines.Medicine] {
	return &Resource[medicines.Medicine]{c: c, path: "/medicines"}
}

func (c *Client) Vendors() *Resource[vendors.Vendor] {
	return &Resource[vendors.Vendor]{c: c, path: "/vendors"}
}

func (c *Client) Tags() *Resource[tags.Tag] {
	return &Resource[tags.Tag]{c: c, path: "/tags"}
}

// Register devuelve el usuario creado (sin password).
func (c *Client) Register(ctx context.Context, in users.RegisterInput) (users.User, error) {
	var out users.User
	if err := c.do(ctx, http.MethodPost, "/users/register", in, &out); err != nil {
		return users.User{}, err
	}
	return out, nil
}

// SignInResult lleva el token si el servidor lo manda; hoy siempre viene vacío.
type SignInResult struct {
	Message string     `json:"message"`
	User    users.User `json:"user"`
	Token   string     `json:"token,omitempty"`
}

func (c *Client) SignIn(ctx context.Context, in users.SignInInput) (SignInResult, error) {
	var out SignInResult
	if err := c.do(ctx, http.MethodPost, "/users/signin", in, &out); err != nil {
		return SignInResult{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	err := c.http.DoJSON(ctx, method, path, nil, in, out)
	if err == nil {
		return nil
	}

	var httpErr *httpclient.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return decodeRequestError(httpErr)
	case errors.Is(err, httpclient.ErrTransport):
		return fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}
	return err
}

func decodeRequestError(e *httpclient.HTTPError) *RequestError {
	out := &RequestError{StatusCode: e.StatusCode}

	var body struct {
		Message string             `json:"message"`
		Msg     string             `json:"msg"`
		Error   string             `json:"error"`
		Errors  []users.FieldError `json:"errors"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err != nil {
		out.Message = e.Body
		return out
	}
	for _, m := range []string{body.Message, body.Msg, body.Error} {
		if m != "" {
			out.Message = m
			break
		}
	}
	out.Fields = body.Errors
	return out
}

// Resource es el CRUD de una colección. Las mutaciones devuelven el mensaje del servidor.
type Resource[T any] struct {
	c    *Client
	path string
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	out := make([]T, 0)
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Create(ctx context.Context, item T) (string, error) {
	return r.mutate(ctx, http.MethodPost, r.path, item)
}

func (r *Resource[T]) Update(ctx context.Context, id string, item T) (string, error) {
	return r.mutate(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), item)
}

func (r *Resource[T]) Delete(ctx context.Context, id string) (string, error) {
	return r.mutate(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil)
}

func (r *Resource[T]) mutate(ctx context.Context, method, path string, body any) (string, error) {
	var out records.MessageResponse
	if err := r.c.do(ctx, method, path, body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
