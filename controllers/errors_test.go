package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"guildhall/services"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/stretchr/testify/assert"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("game %d %w", 7, services.ErrNotFound), http.StatusNotFound},
		{services.ErrConflict, http.StatusConflict},
		{services.ErrGameFull, http.StatusConflict},
		{services.ErrSelfReference, http.StatusBadRequest},
		{services.ErrInvalidInput, http.StatusBadRequest},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			err := tt.err
			ws := new(restful.WebService)
			ws.Route(ws.GET("/x").To(func(req *restful.Request, resp *restful.Response) {
				handleServiceError(req, resp, err)
			}))
			c := restful.NewContainer()
			c.Add(ws)

			w := httptest.NewRecorder()
			c.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "connection reset")
			} else {
				assert.Contains(t, w.Body.String(), tt.err.Error())
			}
		})
	}
}
