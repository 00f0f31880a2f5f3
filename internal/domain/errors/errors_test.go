package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorAccumulates(t *testing.T) {
	var ve ValidationError
	assert.False(t, ve.HasAny())

	ve.Add("site.title", "must not be empty")
	ve.Addf("build.page_size", "must be positive, got %d", 0)

	assert.True(t, ve.HasAny())
	assert.Equal(t, []string{"site.title", "build.page_size"}, ve.Fields())
	assert.Contains(t, ve.Error(), " - build.page_size: must be positive, got 0")
	assert.True(t, stderrors.Is(ve, ErrInvalid))
}

func TestFieldErrorWithoutField(t *testing.T) {
	assert.Equal(t, "plain", FieldError{Message: "plain"}.Error())
}

func TestSourceErrorUnwraps(t *testing.T) {
	cause := stderrors.New("bad yaml")
	err := &SourceError{Path: "content/tracks/a.md", Err: cause}
	assert.Equal(t, "content/tracks/a.md: bad yaml", err.Error())
	assert.ErrorIs(t, err, cause)
}
