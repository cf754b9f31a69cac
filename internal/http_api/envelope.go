package http_api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0xZumii/cat-tv/pkg/apperr"
)

// The API speaks a callable-style envelope: requests carry their payload
// under "data", responses come back under "result" or "error".

type callRequest struct {
	Data json.RawMessage `json:"data"`
}

// bindData decodes the request's data payload into out. A missing body or
// empty data object is fine for operations without inputs.
func bindData(c *gin.Context, out interface{}) error {
	var req callRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperr.New(apperr.InvalidArgument, "Invalid request body: %s", err)
	}
	if len(req.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Data, out); err != nil {
		return apperr.New(apperr.InvalidArgument, "Invalid request data: %s", err)
	}
	return nil
}

func respondResult(c *gin.Context, result interface{}) {
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func respondError(c *gin.Context, err error) {
	e := apperr.From(err)
	c.JSON(e.Status.HTTPStatus(), gin.H{
		"error": gin.H{
			"message": e.Message,
			"status":  string(e.Status),
		},
	})
}
