// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(Unauthorized, "test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, Unauthorized, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(42))
}

func Test_KindOf(t *testing.T) {
	wrapped := errors.WithMessage(Newf(ArithmeticFault, "overflow at %d", 3), "stake")
	assert.True(t, IsRevertErr(wrapped))
	assert.Equal(t, ArithmeticFault, KindOf(wrapped))
	assert.True(t, Is(wrapped, ArithmeticFault))
	assert.False(t, Is(wrapped, PreconditionFailed))

	assert.Equal(t, Kind(0), KindOf(errors.New("io")))
	assert.Equal(t, "Internal", KindOf(errors.New("io")).String())
	assert.Equal(t, "OracleUnavailable", OracleUnavailable.String())
	assert.Equal(t, PreconditionFailed, Precondition("x").Kind())
	assert.Equal(t, ArithmeticFault, Arithmetic("x").Kind())
}
