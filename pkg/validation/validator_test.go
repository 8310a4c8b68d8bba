package validation

import (
	"testing"

	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/Aidin1998/foodgram/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidateStruct_Register(t *testing.T) {
	v := NewValidator(zap.NewNop())

	ok := models.RegisterRequest{
		Email:     "cook@example.com",
		Username:  "cook.1",
		FirstName: "Ann",
		LastName:  "Cook",
		Password:  "s3cret-pass",
	}
	assert.NoError(t, v.ValidateStruct(&ok))

	bad := ok
	bad.Email = "not-an-email"
	bad.Username = "bad name!"
	err := v.ValidateStruct(&bad)
	require.Error(t, err)

	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.Invalid.Kind, e.Kind)
}

func TestValidateStruct_NonStruct(t *testing.T) {
	v := NewValidator(zap.NewNop())
	assert.NoError(t, v.ValidateStruct(nil))
	assert.NoError(t, v.ValidateStruct("text"))

	var req *models.LoginRequest
	assert.NoError(t, v.ValidateStruct(req))
}

func TestValidateStruct_RecipePatch(t *testing.T) {
	v := NewValidator(zap.NewNop())

	assert.NoError(t, v.ValidateStruct(&models.RecipeRequest{}))

	zero := 0
	assert.Error(t, v.ValidateStruct(&models.RecipeRequest{CookingTime: &zero}))
}

func TestSanitize(t *testing.T) {
	v := NewValidator(zap.NewNop())
	assert.Equal(t, "", v.Sanitize(""))
	assert.Equal(t, "Mix flour & water", v.Sanitize("  <b>Mix</b> flour &amp; water<script>x</script> "))
	assert.Equal(t, "1 < 2", v.Sanitize("1 < 2"))
}

func TestSanitize_EscapedMarkup(t *testing.T) {
	v := NewValidator(zap.NewNop())

	for _, input := range []string{
		"&lt;script&gt;x&lt;/script&gt;",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;",
		"Soup &lt;img src=x onerror=alert(1)&gt;",
	} {
		out := v.Sanitize(input)
		assert.NotContains(t, out, "<script", input)
		assert.NotContains(t, out, "<img", input)
	}
	assert.Equal(t, "Soup", v.Sanitize("Soup &lt;img src=x onerror=alert(1)&gt;"))
}

func TestSlugAndColor(t *testing.T) {
	assert.True(t, IsSlug("breakfast"))
	assert.True(t, IsSlug("late_dinner-2"))
	assert.False(t, IsSlug("with space"))

	assert.True(t, IsColor("#E26C2D"))
	assert.False(t, IsColor("E26C2D"))
	assert.False(t, IsColor("#E26C2"))
}
