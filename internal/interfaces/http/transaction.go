package http

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"budget/internal/domain/transaction"
	"budget/internal/infrastructure/blob"
	"budget/internal/shared/middleware"
)

// maxUploadBytes caps the in-memory portion of multipart parsing.
const maxUploadBytes = 10 << 20

// uploadPrefix is the path segment stored in the image field and served
// by the static file route.
const uploadPrefix = "uploads/"

type TransactionHandler struct {
	transactionRepo transaction.Repository
	blobs           blob.Store
}

func NewTransactionHandler(transactionRepo transaction.Repository, blobs blob.Store) *TransactionHandler {
	return &TransactionHandler{
		transactionRepo: transactionRepo,
		blobs:           blobs,
	}
}

// HandleTransactions serves the collection endpoint: GET lists the
// caller's transactions through the optional filter, POST creates one.
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, identity)
	case http.MethodPost:
		h.handleCreate(w, r, identity)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
	}
}

// HandleSummary returns the caller's income/expense/balance aggregate.
// List filters never apply here; the scope is the caller's full record set.
func (h *TransactionHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}

	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	summary, err := h.transactionRepo.Summarize(r.Context(), identity.UserID)
	if err != nil {
		log.Printf("Error summarizing transactions for user %d: %v", identity.UserID, err)
		writeMessage(w, http.StatusInternalServerError, "Error computing summary.")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// HandleTransactionByID serves PUT and DELETE on a single record.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeMessage(w, http.StatusNotFound, "Transaction not found.")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.handleUpdate(w, r, identity, id)
	case http.MethodDelete:
		h.handleDelete(w, r, identity, id)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
	}
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	filter := parseFilter(r)

	transactions, err := h.transactionRepo.List(r.Context(), identity.UserID, filter)
	if err != nil {
		log.Printf("Error listing transactions for user %d: %v", identity.UserID, err)
		writeMessage(w, http.StatusInternalServerError, "Error fetching transactions.")
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	date, err := parseDate(r.FormValue("date"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD).")
		return
	}

	amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid amount.")
		return
	}

	params := transaction.CreateTransactionParams{
		ID:          uuid.New().String(),
		UserID:      identity.UserID,
		Date:        date,
		Amount:      amount,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Kind:        r.FormValue("type"),
	}

	if err := params.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	// Store the attachment only after validation passed, so a rejected
	// request leaves no partial state behind.
	ref, err := h.storeImage(r)
	if err != nil {
		log.Printf("Error storing attachment for user %d: %v", identity.UserID, err)
		writeMessage(w, http.StatusInternalServerError, "Error storing attachment.")
		return
	}
	if ref != "" {
		image := uploadPrefix + ref
		params.Image = &image
	}

	created, err := h.transactionRepo.Create(r.Context(), params)
	if err != nil {
		if ref != "" {
			if cleanupErr := h.blobs.Delete(ref); cleanupErr != nil {
				log.Printf("Warning: failed to clean up attachment %s: %v", ref, cleanupErr)
			}
		}
		log.Printf("Error creating transaction for user %d: %v", identity.UserID, err)
		writeMessage(w, http.StatusInternalServerError, "Error adding transaction.")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *TransactionHandler) handleUpdate(w http.ResponseWriter, r *http.Request, identity middleware.Identity, id string) {
	existing, err := h.transactionRepo.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		log.Printf("Error loading transaction %s for update: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, "Error updating transaction.")
		return
	}
	if existing == nil {
		// Absent and not-owned are reported identically
		writeMessage(w, http.StatusNotFound, "Transaction not found.")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	params, err := parseUpdateParams(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := params.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	ref, err := h.storeImage(r)
	if err != nil {
		log.Printf("Error storing attachment for transaction %s: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, "Error storing attachment.")
		return
	}
	if ref != "" {
		image := uploadPrefix + ref
		params.Image = &image
	}

	updated, err := h.transactionRepo.Update(r.Context(), id, identity.UserID, params)
	if err != nil {
		if ref != "" {
			if cleanupErr := h.blobs.Delete(ref); cleanupErr != nil {
				log.Printf("Warning: failed to clean up attachment %s: %v", ref, cleanupErr)
			}
		}
		if errors.Is(err, transaction.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Transaction not found.")
			return
		}
		log.Printf("Error updating transaction %s: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, "Error updating transaction.")
		return
	}

	// Release the replaced attachment only after the update persisted.
	// Best-effort: a failed blob delete never fails the request.
	if ref != "" && existing.Image != nil {
		h.deleteImage(*existing.Image)
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request, identity middleware.Identity, id string) {
	existing, err := h.transactionRepo.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		log.Printf("Error loading transaction %s for deletion: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, "Error deleting transaction.")
		return
	}
	if existing == nil {
		writeMessage(w, http.StatusNotFound, "Transaction not found.")
		return
	}

	if err := h.transactionRepo.Delete(r.Context(), id, identity.UserID); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Transaction not found.")
			return
		}
		log.Printf("Error deleting transaction %s: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, "Error deleting transaction.")
		return
	}

	// Attachment cleanup happens after the record is gone and is
	// best-effort by design of the delete contract.
	if existing.Image != nil {
		h.deleteImage(*existing.Image)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted."})
}

// storeImage saves the optional multipart image and returns its blob
// reference, or "" when no image was uploaded.
func (h *TransactionHandler) storeImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	return h.blobs.Save(file, filepath.Ext(header.Filename))
}

func (h *TransactionHandler) deleteImage(image string) {
	ref := strings.TrimPrefix(image, uploadPrefix)
	if err := h.blobs.Delete(ref); err != nil {
		log.Printf("Warning: failed to delete attachment %s: %v", ref, err)
	}
}

// parseFilter reads the optional list criteria from the query string.
// One-sided date ranges are honored. Unparseable dates are treated as
// unset rather than failing the whole request.
func parseFilter(r *http.Request) transaction.Filter {
	var filter transaction.Filter

	if v := r.URL.Query().Get("startDate"); v != "" {
		if t, err := parseDate(v); err == nil {
			filter.From = t
		}
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		if t, err := parseDate(v); err == nil {
			filter.To = t
		}
	}
	filter.Category = r.URL.Query().Get("category")
	filter.Search = r.URL.Query().Get("search")

	return filter
}

// parseUpdateParams collects only the fields present in the form, so an
// omitted field keeps its stored value.
func parseUpdateParams(r *http.Request) (transaction.UpdateTransactionParams, error) {
	var params transaction.UpdateTransactionParams

	if v, ok := formField(r, "date"); ok {
		date, err := parseDate(v)
		if err != nil {
			return params, &transaction.ValidationError{Field: "date", Reason: "invalid format (use YYYY-MM-DD)"}
		}
		params.Date = &date
	}
	if v, ok := formField(r, "amount"); ok {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, &transaction.ValidationError{Field: "amount", Reason: "must be a number"}
		}
		params.Amount = &amount
	}
	if v, ok := formField(r, "description"); ok {
		params.Description = &v
	}
	if v, ok := formField(r, "category"); ok {
		params.Category = &v
	}
	if v, ok := formField(r, "type"); ok {
		params.Kind = &v
	}

	return params, nil
}

// formField reports whether the multipart form carried the named field
// at all, as opposed to carrying it with an empty value.
func formField(r *http.Request, key string) (string, bool) {
	var form *multipart.Form
	if form = r.MultipartForm; form == nil {
		return "", false
	}
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// parseDate accepts the date-only wire format and full RFC 3339
// timestamps, which is what browser clients send.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
