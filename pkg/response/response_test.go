package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "servicemarket/pkg/errors"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var out Response
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestError_AppError(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Error(c, apperrors.Conflict("Review for this booking already exists")))

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, apperrors.CodeConflict, body.Error.Code)
	assert.Equal(t, "Review for this booking already exists", body.Error.Message)
}

func TestError_Validation(t *testing.T) {
	type input struct {
		ServiceAddress string `validate:"required"`
		Rating         int    `validate:"min=1,max=5"`
	}
	err := validator.New().Struct(input{Rating: 9})
	require.Error(t, err)

	c, rec := newContext()
	require.NoError(t, Error(c, err))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "service_address is required", body.Error.Message)

	details, ok := body.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rating must be at most 5", details["rating"])
}

func TestError_EchoAndUnknown(t *testing.T) {
	c, rec := newContext()
	ErrorHandler(echo.ErrNotFound, c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, rec).Error.Code)

	c, rec = newContext()
	require.NoError(t, Error(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperrors.CodeInternal, decodeBody(t, rec).Error.Code)
}

func TestPaginated(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Paginated(c, []string{"a", "b"}, 41, 2, 20))

	var out struct {
		Data PaginatedResponse `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, int64(41), out.Data.Total)
	assert.Equal(t, 3, out.Data.TotalPages)
	assert.Equal(t, 2, out.Data.Page)
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "service_address", toSnake("ServiceAddress"))
	assert.Equal(t, "rating", toSnake("rating"))
	assert.Equal(t, "booking_id", toSnake("booking_id"))
}
