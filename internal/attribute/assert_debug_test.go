//go:build attrdebug

package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainer_SetAttributeToMax_AssertsHierarchy(t *testing.T) {
	c := NewContainer([]Initializer{{Tag: tagOne, BaseValue: 10}}, WithParentResolver(testTags))

	assert.Panics(t, func() {
		c.SetAttributeToMax(tagTwo, tagOne, true)
	})
	assert.NotPanics(t, func() {
		c.SetAttributeToMax(tagHealth, tagHealthM, true)
	})
}
