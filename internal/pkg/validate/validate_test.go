package validate

import (
	"errors"
	"testing"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		body      loginBody
		wantField string
	}{
		{name: "валидное тело", body: loginBody{Email: "a@b.id", Password: "secret1"}},
		{name: "нет email", body: loginBody{Password: "secret1"}, wantField: "email"},
		{name: "короткий пароль", body: loginBody{Email: "a@b.id", Password: "123"}, wantField: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.body)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}
