package repodb

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Cyberx9901/arch-repo-management/internal/convert"
	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
	"github.com/Cyberx9901/arch-repo-management/internal/models"
	"github.com/Cyberx9901/arch-repo-management/internal/repoerrors"
)

const (
	temporaryDatabasePatternConstant      = ".%s.*.tmp"
	createDatabaseErrorTemplateConstant   = "unable to create database: %w"
	writeMemberErrorTemplateConstant      = "unable to write member '%s': %w"
	finalizeDatabaseErrorTemplateConstant = "unable to finalize database: %w"
	writerClosedMessageConstant           = "database writer is already closed"
)

// Clock supplies modification times for written members.
type Clock interface {
	Now() time.Time
}

// SystemClock reports the wall clock time.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// DBWriter streams members into a compressed repository database. Data is
// written to a temporary file next to the destination and moved into place on
// Close.
type DBWriter struct {
	path          string
	temporaryFile *os.File
	compressor    io.Closer
	tarWriter     *tar.Writer
	clock         Clock
	closed        bool
}

// NewDBWriter prepares a writer for path using the requested compression.
func NewDBWriter(path string, compression defaults.Compression, clock Clock) (*DBWriter, error) {
	if _, parseError := defaults.ParseCompression(string(compression)); parseError != nil {
		return nil, parseError
	}
	if clock == nil {
		clock = SystemClock{}
	}

	temporaryFile, createError := os.CreateTemp(filepath.Dir(path), fmt.Sprintf(temporaryDatabasePatternConstant, filepath.Base(path)))
	if createError != nil {
		return nil, repoerrors.New(repoerrors.ErrFile, path, fmt.Errorf(createDatabaseErrorTemplateConstant, createError))
	}

	compressor, compressorError := newCompressor(temporaryFile, compression)
	if compressorError != nil {
		temporaryFile.Close()
		os.Remove(temporaryFile.Name())
		return nil, compressorError
	}

	return &DBWriter{
		path:          path,
		temporaryFile: temporaryFile,
		compressor:    compressor,
		tarWriter:     tar.NewWriter(compressor),
		clock:         clock,
	}, nil
}

// Path returns the destination of the database.
func (writer *DBWriter) Path() string {
	return writer.path
}

// AddDirectory writes a directory member.
func (writer *DBWriter) AddDirectory(name string) error {
	header := writer.header(name+memberPathSeparatorConstant, tar.TypeDir, defaults.DBDirMode, 0)
	if writeError := writer.tarWriter.WriteHeader(header); writeError != nil {
		return repoerrors.New(repoerrors.ErrFile, writer.path, fmt.Errorf(writeMemberErrorTemplateConstant, name, writeError))
	}
	return nil
}

// AddFile writes a regular file member.
func (writer *DBWriter) AddFile(name string, data []byte) error {
	header := writer.header(name, tar.TypeReg, defaults.DBFileMode, int64(len(data)))
	if writeError := writer.tarWriter.WriteHeader(header); writeError != nil {
		return repoerrors.New(repoerrors.ErrFile, writer.path, fmt.Errorf(writeMemberErrorTemplateConstant, name, writeError))
	}
	if _, writeError := writer.tarWriter.Write(data); writeError != nil {
		return repoerrors.New(repoerrors.ErrFile, writer.path, fmt.Errorf(writeMemberErrorTemplateConstant, name, writeError))
	}
	return nil
}

// Close flushes all streams and moves the database to its destination.
func (writer *DBWriter) Close() error {
	if writer.closed {
		return errors.New(writerClosedMessageConstant)
	}
	writer.closed = true

	closeError := errors.Join(writer.tarWriter.Close(), writer.compressor.Close(), writer.temporaryFile.Close())
	if closeError == nil {
		closeError = os.Chmod(writer.temporaryFile.Name(), defaults.DBFileMode)
	}
	if closeError == nil {
		closeError = os.Rename(writer.temporaryFile.Name(), writer.path)
	}
	if closeError != nil {
		os.Remove(writer.temporaryFile.Name())
		return repoerrors.New(repoerrors.ErrFile, writer.path, fmt.Errorf(finalizeDatabaseErrorTemplateConstant, closeError))
	}
	return nil
}

// Abort discards everything written so far.
func (writer *DBWriter) Abort() {
	if writer.closed {
		return
	}
	writer.closed = true
	writer.temporaryFile.Close()
	os.Remove(writer.temporaryFile.Name())
}

func (writer *DBWriter) header(name string, typeFlag byte, mode int64, size int64) *tar.Header {
	return &tar.Header{
		Name:     name,
		Typeflag: typeFlag,
		Mode:     mode,
		Size:     size,
		Uname:    defaults.DBUser,
		Gname:    defaults.DBGroup,
		ModTime:  writer.clock.Now(),
		Format:   tar.FormatPAX,
	}
}

// StreamPackageBaseToDB writes the members of every package in packageBase.
func StreamPackageBaseToDB(writer *DBWriter, packageBase models.OutputPackageBase, renderer *convert.RepoDbFile, dbType defaults.RepoDbType) error {
	for _, packageModels := range packageBase.PackagesAsModels() {
		directoryName := packageModels.Desc.Name + memberNameSeparatorConstant + packageModels.Desc.Version
		if directoryError := writer.AddDirectory(directoryName); directoryError != nil {
			return directoryError
		}

		var descBuffer bytes.Buffer
		if renderError := renderer.RenderDesc(packageModels.Desc, &descBuffer); renderError != nil {
			return renderError
		}
		if addError := writer.AddFile(directoryName+memberPathSeparatorConstant+defaults.DescMemberName, descBuffer.Bytes()); addError != nil {
			return addError
		}

		if dbType != defaults.RepoDbTypeFiles {
			continue
		}
		var filesBuffer bytes.Buffer
		if renderError := renderer.RenderFiles(packageModels.Desc.Name, packageModels.Files, &filesBuffer); renderError != nil {
			return renderError
		}
		if addError := writer.AddFile(directoryName+memberPathSeparatorConstant+defaults.FilesMemberName, filesBuffer.Bytes()); addError != nil {
			return addError
		}
	}
	return nil
}
