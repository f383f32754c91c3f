// Package ui holds the client-side product list and edit form state, kept in
// sync with the API by optimistic local updates.
package ui

import (
	"context"
	"errors"
	"strings"
	"sync"

	"gestion-produits/internal/client"
	"gestion-produits/internal/model"

	"github.com/shopspring/decimal"
)

// User-facing messages.
const (
	MsgLoadFailed     = "Impossible de charger les produits — vérifiez le backend."
	MsgFieldsRequired = "Tous les champs sont obligatoires."
	MsgInvalidPrice   = "Le prix doit être un nombre positif."
	MsgSaveFailed     = "Erreur lors de la sauvegarde du produit."
	MsgDeleteFailed   = "Impossible de supprimer le produit."
	MsgUnreachable    = "Impossible de contacter le serveur. Vérifiez que le backend est démarré."
	MsgConfirmDelete  = "Êtes-vous sûr de vouloir supprimer ce produit ?"
)

var (
	// ErrFormBusy is returned when opening a form while another one is open
	// or being submitted.
	ErrFormBusy = errors.New("a form is already open")
	// ErrFormClosed is returned when acting on a form that is not open.
	ErrFormClosed = errors.New("no form is open")
	// ErrNotFound is returned when the product is not in the local list.
	ErrNotFound = errors.New("product not found in local list")
	// ErrInvalidForm is returned when submitted values fail local validation.
	ErrInvalidForm = errors.New("invalid form values")
)

// API is the subset of client.Client used by a Session.
type API interface {
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, in model.ProductInput) (*model.Product, error)
	Update(ctx context.Context, id int64, in model.ProductInput) (model.MutationResult, error)
	Delete(ctx context.Context, id int64) (model.MutationResult, error)
}

// FormState is the state of the product form.
type FormState int

const (
	FormClosed FormState = iota
	FormOpen
	FormSubmitting
)

func (s FormState) String() string {
	switch s {
	case FormOpen:
		return "open"
	case FormSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// FormValues are the raw, unvalidated form fields.
type FormValues struct {
	Name     string
	Price    string
	Category string
}

// Session is the local view of the product list. It is safe for concurrent
// use; API calls are made without holding the lock.
type Session struct {
	api API

	mu        sync.Mutex
	items     []model.Product
	loading   bool
	err       string
	form      FormState
	editingID int64
	editing   bool
	values    FormValues
}

// NewSession creates an empty session backed by api.
func NewSession(api API) *Session {
	return &Session{api: api}
}

// Load fetches the full product list, replacing the local one.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	products, err := s.api.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = MsgLoadFailed
		return err
	}
	s.items = products
	return nil
}

// Loading reports whether a Load is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Products returns a copy of the local list, newest first.
func (s *Session) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, len(s.items))
	copy(out, s.items)
	return out
}

// Empty reports whether no load is in flight and the list holds no products.
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.loading && len(s.items) == 0
}

// Error returns the current error message, or "" if there is none.
func (s *Session) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// DismissError clears the current error message.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// Form returns the form state and its current values.
func (s *Session) Form() (FormState, FormValues) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form, s.values
}

// Editing returns the ID of the product being edited, if any.
func (s *Session) Editing() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID, s.editing
}

// OpenNew opens an empty creation form.
func (s *Session) OpenNew() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form != FormClosed {
		return ErrFormBusy
	}
	s.form = FormOpen
	s.editing, s.editingID = false, 0
	s.values = FormValues{}
	return nil
}

// OpenEdit opens a form prefilled with the product's current values.
func (s *Session) OpenEdit(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form != FormClosed {
		return ErrFormBusy
	}
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	p := s.items[i]
	s.form = FormOpen
	s.editing, s.editingID = true, id
	s.values = FormValues{Name: p.Name, Price: p.Price.String(), Category: p.Category}
	return nil
}

// SetValues replaces the values of the open form.
func (s *Session) SetValues(v FormValues) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form != FormOpen {
		return ErrFormClosed
	}
	s.values = v
	return nil
}

// Cancel closes the form without saving.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == FormOpen {
		s.closeForm()
	}
}

// Submit validates the open form and sends it to the API. On success the
// local list is updated and the form closes; on failure the form stays open
// and Error describes the problem.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.form != FormOpen {
		s.mu.Unlock()
		return ErrFormClosed
	}
	s.err = ""

	in, err := validate(s.values)
	if err != nil {
		s.err = err.Error()
		s.mu.Unlock()
		return ErrInvalidForm
	}

	s.form = FormSubmitting
	editing, id := s.editing, s.editingID
	s.mu.Unlock()

	var created *model.Product
	if editing {
		_, err = s.api.Update(ctx, id, in)
	} else {
		created, err = s.api.Create(ctx, in)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.form = FormOpen
		s.err = Describe(err, MsgSaveFailed)
		return err
	}

	if editing {
		// Update returns only a count, so patch from the submitted values.
		if i := s.indexOf(id); i >= 0 {
			s.items[i].Name = *in.Name
			s.items[i].Price = *in.Price
			s.items[i].Category = *in.Category
		}
	} else {
		s.items = append([]model.Product{*created}, s.items...)
	}
	s.closeForm()
	return nil
}

// Delete removes a product after confirm returns true. It reports whether a
// request was made.
func (s *Session) Delete(ctx context.Context, id int64, confirm func(prompt string) bool) (bool, error) {
	if confirm == nil || !confirm(MsgConfirmDelete) {
		return false, nil
	}

	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()

	_, err := s.api.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = Describe(err, MsgDeleteFailed)
		return true, err
	}
	if i := s.indexOf(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	return true, nil
}

// Describe turns an API error into a user-facing message, using fallback
// when the server gave no message.
func Describe(err error, fallback string) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, client.ErrUnreachable):
		return MsgUnreachable
	default:
		return fallback
	}
}

func validate(v FormValues) (model.ProductInput, error) {
	name := strings.TrimSpace(v.Name)
	rawPrice := strings.TrimSpace(v.Price)
	category := strings.TrimSpace(v.Category)
	if name == "" || rawPrice == "" || category == "" {
		return model.ProductInput{}, errors.New(MsgFieldsRequired)
	}

	price, err := decimal.NewFromString(rawPrice)
	if err != nil || price.IsNegative() {
		return model.ProductInput{}, errors.New(MsgInvalidPrice)
	}

	return model.ProductInput{Name: &name, Price: &price, Category: &category}, nil
}

func (s *Session) closeForm() {
	s.form = FormClosed
	s.editing, s.editingID = false, 0
	s.values = FormValues{}
}

func (s *Session) indexOf(id int64) int {
	for i, p := range s.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}
