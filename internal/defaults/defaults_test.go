package defaults_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
)

func TestParseCompression(testInstance *testing.T) {
	testCases := []struct {
		name                string
		input               string
		expectedCompression defaults.Compression
		expectError         bool
	}{
		{name: "empty_defaults_to_gzip", input: "", expectedCompression: defaults.CompressionGzip},
		{name: "gzip", input: "gz", expectedCompression: defaults.CompressionGzip},
		{name: "case_and_whitespace", input: " ZST ", expectedCompression: defaults.CompressionZstd},
		{name: "xz", input: "xz", expectedCompression: defaults.CompressionXz},
		{name: "bzip2", input: "bz2", expectedCompression: defaults.CompressionBzip2},
		{name: "none", input: "none", expectedCompression: defaults.CompressionNone},
		{name: "unknown", input: "foo", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			compression, parseError := defaults.ParseCompression(testCase.input)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedCompression, compression)
		})
	}
}

func TestParseRepoDbType(testInstance *testing.T) {
	databaseType, parseError := defaults.ParseRepoDbType("")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, defaults.RepoDbTypeDefault, databaseType)

	databaseType, parseError = defaults.ParseRepoDbType("Files")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, defaults.RepoDbTypeFiles, databaseType)

	_, parseError = defaults.ParseRepoDbType("sync")
	require.Error(testInstance, parseError)
}

func TestDescSectionOrderCoversAllSections(testInstance *testing.T) {
	require.Len(testInstance, defaults.DescSectionOrder, len(defaults.DescJSON))
	for _, header := range defaults.DescSectionOrder {
		_, known := defaults.DescJSON[header]
		require.True(testInstance, known, header)
	}
	require.Equal(testInstance, "FILES", defaults.SectionName(defaults.FilesHeader))
	require.Equal(testInstance, "%NAME%", defaults.SectionHeader("NAME"))
}

func TestUnmarshalTextUsesParsers(testInstance *testing.T) {
	var compression defaults.Compression
	require.NoError(testInstance, compression.UnmarshalText([]byte("XZ")))
	require.Equal(testInstance, defaults.CompressionXz, compression)
	require.Error(testInstance, compression.UnmarshalText([]byte("lz4")))

	var databaseType defaults.RepoDbType
	require.NoError(testInstance, databaseType.UnmarshalText([]byte("files")))
	require.Equal(testInstance, defaults.RepoDbTypeFiles, databaseType)
	require.Error(testInstance, databaseType.UnmarshalText([]byte("sync")))
}
