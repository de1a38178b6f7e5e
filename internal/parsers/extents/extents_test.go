package extents

import (
	"encoding/binary"
	"testing"

	"github.com/go-forensics/hfsrecover/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint16(buf[0:], types.ExtentKeyMaximumLength)
	buf[2] = 0 // data fork
	binary.BigEndian.PutUint32(buf[4:], 17)
	binary.BigEndian.PutUint32(buf[8:], 8)

	key, err := ParseKey(buf, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 17, key.FileID)
	assert.EqualValues(t, 8, key.StartBlock)
	assert.True(t, IsDataFork(key))
}

func TestIsDataForkFalseForResourceFork(t *testing.T) {
	key := &types.ExtentKey{ForkType: 0xFF}
	assert.False(t, IsDataFork(key))
}

func TestParseRecord(t *testing.T) {
	buf := make([]byte, types.ExtentRecordSize)
	binary.BigEndian.PutUint32(buf[0:], 100)
	binary.BigEndian.PutUint32(buf[4:], 2)

	rec, err := ParseRecord(buf, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 100, rec[0].StartBlock)
	assert.EqualValues(t, 2, rec[0].BlockCount)
	assert.EqualValues(t, 0, rec[1].StartBlock)
}

func TestParseRecordShortBuffer(t *testing.T) {
	_, err := ParseRecord(make([]byte, 4), 0)
	require.Error(t, err)
}
