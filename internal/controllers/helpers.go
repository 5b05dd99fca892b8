package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/propserve/brokerage-api/internal/dtos"
	"github.com/propserve/brokerage-api/internal/utils"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	if err := dtos.RegisterCustomValidations(v); err != nil {
		panic(err)
	}
	return v
}

// decodeAndValidate parses the JSON body into dst and runs validation,
// writing the error response itself. Returns false when the request was
// rejected.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", validationDetails(err), err)
		return false
	}
	return true
}

func validationDetails(err error) any {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	details := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}

// boolQuery reports whether the named query parameter is set to "true".
func boolQuery(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "true"
}

// pathID extracts a positive integer path variable.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id in path", nil, err)
		return 0, false
	}
	return id, true
}
