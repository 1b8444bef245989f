// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types_test

import (
	"database/sql"
	"database/sql/driver"
	"math/big"
	"testing"

	"github.com/blinklabs-io/quorum/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigIntScanValue(t *testing.T) {
	huge, ok := new(big.Int).SetString(
		"411376139330301510538742295639337626245683966408394965837152255",
		10,
	)
	require.True(t, ok)
	testDefs := []struct {
		origValue     *types.BigInt
		expectedValue string
	}{
		{
			origValue:     &types.BigInt{Int: big.NewInt(123)},
			expectedValue: "123",
		},
		{
			origValue:     &types.BigInt{Int: big.NewInt(0)},
			expectedValue: "0",
		},
		{
			origValue:     &types.BigInt{Int: huge},
			expectedValue: huge.String(),
		},
	}
	for _, testDef := range testDefs {
		var valuer driver.Valuer = testDef.origValue
		valueOut, err := valuer.Value()
		require.NoError(t, err)
		assert.Equal(t, testDef.expectedValue, valueOut)
		var scanned types.BigInt
		var scanner sql.Scanner = &scanned
		require.NoError(t, scanner.Scan(valueOut))
		assert.Equal(t, 0, scanned.Cmp(testDef.origValue.Int))
	}
}

func TestBigIntScanTypes(t *testing.T) {
	var b types.BigInt
	require.NoError(t, b.Scan([]byte("42")))
	assert.Equal(t, int64(42), b.Int64())
	require.NoError(t, b.Scan(int64(7)))
	assert.Equal(t, int64(7), b.Int64())
	require.NoError(t, b.Scan(nil))
	assert.Equal(t, int64(0), b.Int64())
	assert.Error(t, b.Scan("not-a-number"))
	assert.Error(t, b.Scan(3.14))
}

func TestBigIntNilValue(t *testing.T) {
	var b types.BigInt
	v, err := b.Value()
	require.NoError(t, err)
	assert.Equal(t, "0", v)
	assert.Equal(t, 0, b.Big().Sign())
}

func TestBigIntCopies(t *testing.T) {
	orig := big.NewInt(10)
	b := types.NewBigInt(orig)
	orig.SetInt64(99)
	assert.Equal(t, int64(10), b.Int64())
	out := b.Big()
	out.SetInt64(5)
	assert.Equal(t, int64(10), b.Int64())
	assert.Equal(t, int64(0), types.NewBigInt(nil).Int64())
}
