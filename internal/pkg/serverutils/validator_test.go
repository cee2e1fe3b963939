package serverutils

import (
	"strings"
	"testing"

	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequestCollectsAllFailures(t *testing.T) {
	req := dto.SignUpRequest{
		Email:    "not-an-email",
		Password: "short",
		Name:     "",
	}

	err := ValidateRequest(req)

	var appErr *apperror.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Messages, 3)
	assert.Contains(t, appErr.Messages, "email is invalid")
	assert.Contains(t, appErr.Messages, "name can't be blank")
	assert.Contains(t, appErr.Messages, "password is too short (minimum is 8 characters)")
}

func TestValidateRequestPasses(t *testing.T) {
	req := dto.SignUpRequest{
		Email:    "user@example.com",
		Password: "longenough",
		Name:     "User",
	}
	assert.NoError(t, ValidateRequest(req))
}

func TestValidateRequestMaxLength(t *testing.T) {
	req := dto.CreateProjectRequest{Name: strings.Repeat("x", 256)}

	err := ValidateRequest(req)

	var appErr *apperror.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Messages, "name is too long (maximum is 255 characters)")
}
