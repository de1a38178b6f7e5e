package recover

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-forensics/hfsrecover/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBlockSize = 4096

func putName(buf []byte, off int, name string) {
	for i, c := range []byte(name) {
		binary.BigEndian.PutUint16(buf[off+i*2:], uint16(c))
	}
}

func writeCatalogKey(buf []byte, off int, parentID uint32, name string) uint16 {
	keyLength := uint16(len(name)*2 + types.CatalogKeyMinimumLength)
	binary.BigEndian.PutUint16(buf[off:], keyLength)
	binary.BigEndian.PutUint32(buf[off+2:], parentID)
	binary.BigEndian.PutUint16(buf[off+6:], uint16(len(name)))
	putName(buf, off+8, name)
	return keyLength
}

func writeFolderRecord(buf []byte, off int, folderID uint32) {
	binary.BigEndian.PutUint16(buf[off:], types.RecordTypeFolder)
	binary.BigEndian.PutUint32(buf[off+8:], folderID)
}

func writeFileRecord(buf []byte, off int, fileID uint32, logicalSize uint64, totalBlocks uint32, startBlock uint32) {
	binary.BigEndian.PutUint16(buf[off:], types.RecordTypeFile)
	binary.BigEndian.PutUint32(buf[off+8:], fileID)
	dataFork := off + 88
	binary.BigEndian.PutUint64(buf[dataFork:], logicalSize)
	binary.BigEndian.PutUint32(buf[dataFork+12:], totalBlocks)
	binary.BigEndian.PutUint32(buf[dataFork+16:], startBlock)
	binary.BigEndian.PutUint32(buf[dataFork+20:], 1)
}

func setTail(buf []byte, entries ...uint16) {
	size := len(buf)
	for i, v := range entries {
		binary.BigEndian.PutUint16(buf[size-2-2*i:], v)
	}
}

// buildMinimalVolumeLeaf writes a catalog leaf with one folder {16, parent
// folderParent, "docs"} and one file {17, parent fileParent, name, logicalSize,
// totalBlocks=1, extent{startBlock, 1}} into a testBlockSize-byte buffer.
func buildMinimalVolumeLeaf(folderParent, fileParent, startBlock uint32, name string, logicalSize uint64) []byte {
	buf := make([]byte, testBlockSize)
	buf[8] = 0xFF

	off := types.BTNodeDescriptorSize
	writeCatalogKey(buf, off, folderParent, "docs")
	writeFolderRecord(buf, off+14+2, 16)
	afterFolder := off + 14 + 2 + types.CatalogFolderRecordSize

	keyLen := writeCatalogKey(buf, afterFolder, fileParent, name)
	writeFileRecord(buf, afterFolder+int(keyLen)+2, 17, logicalSize, 1, startBlock)
	afterFile := afterFolder + int(keyLen) + 2 + types.CatalogFileRecordSize

	setTail(buf, uint16(afterFile), uint16(afterFolder), uint16(afterFile))
	return buf
}

func baseRecoveryConfig() types.RecoveryConfig {
	return types.RecoveryConfig{
		SectorSize:      512,
		BlockSize:       testBlockSize,
		BufferSize:      testBlockSize,
		CatalogNodeSize: testBlockSize,
		ExtentNodeSize:  testBlockSize,
	}
}

func writeImageFile(t *testing.T, blocks int) (string, []byte) {
	t.Helper()
	image := make([]byte, testBlockSize*blocks)
	path := filepath.Join(t.TempDir(), "image.dmg")
	return path, image
}

func TestHandleMinimalSyntheticVolume(t *testing.T) {
	path, image := writeImageFile(t, 200)
	binary.BigEndian.PutUint16(image[2*512:], types.SigHFSPlus) // primary volume header signature
	copy(image[testBlockSize:2*testBlockSize], buildMinimalVolumeLeaf(2, 16, 100, "a.txt", 5))
	copy(image[100*testBlockSize:], []byte("hello"))
	require.NoError(t, os.WriteFile(path, image, 0644))

	outDir := t.TempDir()
	req := &Request{ImagePath: path, OutDir: outDir, Config: baseRecoveryConfig()}

	summary, err := Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Stats.FilesIndexed)
	assert.Equal(t, 1, summary.Stats.FoldersIndexed)

	got, err := os.ReadFile(filepath.Join(outDir, "docs", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestHandleMissingParentGoesToLost(t *testing.T) {
	path, image := writeImageFile(t, 200)
	binary.BigEndian.PutUint16(image[2*512:], types.SigHFSPlus) // primary volume header signature
	copy(image[testBlockSize:2*testBlockSize], buildMinimalVolumeLeaf(2, 9999, 100, "a.txt", 5))
	copy(image[100*testBlockSize:], []byte("hello"))
	require.NoError(t, os.WriteFile(path, image, 0644))

	outDir := t.TempDir()
	req := &Request{ImagePath: path, OutDir: outDir, Config: baseRecoveryConfig()}

	summary, err := Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Stats.FilesIndexed)

	got, err := os.ReadFile(filepath.Join(outDir, "lost", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestHandleEmptyImageStrictFailsPreflight(t *testing.T) {
	path, image := writeImageFile(t, 200)
	require.NoError(t, os.WriteFile(path, image, 0644))

	outDir := t.TempDir()
	cfg := baseRecoveryConfig()
	req := &Request{ImagePath: path, OutDir: outDir, Config: cfg, VerifyOnly: true}

	_, err := Handle(context.Background(), req)
	assert.Error(t, err)
}

func TestHandleEmptyImagePermissiveSucceedsWithNoRecoveries(t *testing.T) {
	path, image := writeImageFile(t, 200)
	require.NoError(t, os.WriteFile(path, image, 0644))

	outDir := t.TempDir()
	cfg := baseRecoveryConfig()
	cfg.Permissive = true
	req := &Request{ImagePath: path, OutDir: outDir, Config: cfg}

	summary, err := Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Stats.FilesIndexed)
}

func TestHandleDedupCollapsesDuplicateAccepts(t *testing.T) {
	path, image := writeImageFile(t, 200)
	leaf := buildMinimalVolumeLeaf(2, 16, 100, "a.txt", 5)
	copy(image[testBlockSize:2*testBlockSize], leaf)
	copy(image[2*testBlockSize:3*testBlockSize], leaf) // same leaf accepted twice

	binary.BigEndian.PutUint16(image[2*512:], types.SigHFSPlus) // primary volume header signature
	copy(image[100*testBlockSize:], []byte("hello"))
	require.NoError(t, os.WriteFile(path, image, 0644))

	outDir := t.TempDir()
	cfg := baseRecoveryConfig()
	cfg.Dedup = true
	req := &Request{ImagePath: path, OutDir: outDir, Config: cfg}

	summary, err := Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Stats.FilesIndexed)
	assert.Equal(t, 1, summary.Stats.DuplicatesDropped)
}

func TestHandleWithoutDedupKeepsDuplicateAccepts(t *testing.T) {
	path, image := writeImageFile(t, 200)
	leaf := buildMinimalVolumeLeaf(2, 16, 100, "a.txt", 5)
	copy(image[testBlockSize:2*testBlockSize], leaf)
	copy(image[2*testBlockSize:3*testBlockSize], leaf)
	binary.BigEndian.PutUint16(image[2*512:], types.SigHFSPlus) // primary volume header signature
	copy(image[100*testBlockSize:], []byte("hello"))
	require.NoError(t, os.WriteFile(path, image, 0644))

	outDir := t.TempDir()
	req := &Request{ImagePath: path, OutDir: outDir, Config: baseRecoveryConfig()}

	summary, err := Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Stats.FilesIndexed)
}

func TestValidateRejectsUndersizedBuffer(t *testing.T) {
	cfg := baseRecoveryConfig()
	cfg.BufferSize = 100
	assert.Error(t, Validate(cfg))
}

func TestRequestValidateRequiresOutDirUnlessVerifyOnly(t *testing.T) {
	req := &Request{ImagePath: "x", Config: baseRecoveryConfig()}
	assert.Error(t, req.Validate())

	req.VerifyOnly = true
	assert.NoError(t, req.Validate())
}
