package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/storefront"
)

const maxBodyBytes = 1 << 20

// ErrInvalidBody is returned for cart request bodies that are not valid JSON.
var ErrInvalidBody = goerrors.New("httpapi: invalid request body", goerrors.CategoryValidation).
	WithTextCode("INVALID_BODY")

type addLinesRequest struct {
	Lines []storefront.CartLineInput `json:"lines"`
}

type updateLinesRequest struct {
	Lines []storefront.CartLineUpdate `json:"lines"`
}

type removeLinesRequest struct {
	LineIDs []string `json:"lineIds"`
}

func (a *api) createCart(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.CreateCart(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (a *api) cart(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.GetCart(r.Context(), pathID(r))
	a.respond(w, r, out, err)
}

func (a *api) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addLinesRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	out, err := a.store.AddToCart(r.Context(), pathID(r), req.Lines)
	a.respond(w, r, out, err)
}

func (a *api) updateCart(w http.ResponseWriter, r *http.Request) {
	var req updateLinesRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	out, err := a.store.UpdateCart(r.Context(), pathID(r), req.Lines)
	a.respond(w, r, out, err)
}

func (a *api) removeFromCart(w http.ResponseWriter, r *http.Request) {
	var req removeLinesRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	out, err := a.store.RemoveFromCart(r.Context(), pathID(r), req.LineIDs)
	a.respond(w, r, out, err)
}

func decode(r *http.Request, dest any) error {
	if r.Body == nil {
		return ErrInvalidBody
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dest); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "httpapi: decode body").
			WithTextCode("INVALID_BODY")
	}
	return nil
}
