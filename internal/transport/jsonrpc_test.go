package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"sort_by","params":{"table":"trades","key":"desk"},"id":1}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "2.0", req.JSONRPC)
	require.Equal(t, "sort_by", req.Method)
	require.Equal(t, json.RawMessage(`{"table":"trades","key":"desk"}`), req.Params)
}

func TestParseRequest_Invalid(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"missing method": {`{"jsonrpc":"2.0","id":1}`, errInvalidRequest},
		"wrong version":  {`{"jsonrpc":"1.0","method":"get_state","id":1}`, errInvalidRequest},
		"not json":       {`{"jsonrpc":`, errParse},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRequest(bytes.NewBufferString(tc.body))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWriteResult(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResult(rec, 7, map[string]any{"tables": []string{"trades"}})

	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Nil(t, resp.Error)
	require.Equal(t, float64(7), resp.ID)
	require.Equal(t, map[string]any{"tables": []any{"trades"}}, resp.Result)
}

type detailedError struct {
	apiError
	details any
}

func (e *detailedError) DetailsValue() any { return e.details }

func TestWriteError(t *testing.T) {
	_, parseErr := ParseRequest(bytes.NewBufferString(`{`))
	_, reqErr := ParseRequest(bytes.NewBufferString(`{"jsonrpc":"2.0"}`))

	cases := map[string]struct {
		err      error
		wantCode int
		wantData any
	}{
		"parse":           {parseErr, ErrParseCode, nil},
		"invalid request": {reqErr, ErrInvalidReq, nil},
		"unknown method":  {&apiError{code: "UNKNOWN_METHOD"}, ErrMethodNotFound, map[string]any{"code": "UNKNOWN_METHOD", "recovery_hint": "try again"}},
		"coded with details": {
			fmt.Errorf("wrapped: %w", &detailedError{apiError: apiError{code: "INVALID_MANUAL_GROUP"}, details: map[string]any{"notices": []any{}}}),
			ErrInvalidParams,
			map[string]any{"code": "INVALID_MANUAL_GROUP", "details": map[string]any{"notices": []any{}}, "recovery_hint": "try again"},
		},
		"internal": {errors.New("boom"), ErrInternal, nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			written := WriteError(rec, 1, tc.err)
			require.Equal(t, tc.wantCode, written.Code)

			require.Equal(t, 200, rec.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.Equal(t, tc.wantData, resp.Error.Data)
			require.Equal(t, float64(1), resp.ID)
		})
	}
}
