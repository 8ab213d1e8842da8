package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"

	"github.com/cratebuild/cratebuild/api"
)

// Client bundles release artifacts into distributable archives
//go:generate mockgen -package=archive -destination ./mock.go -source=client.go
type Client interface {
	CreateArchive(ctx context.Context, spec api.ArchiveSpec) (err error)
	CollectAuxiliaryFiles(projectDir string, include []string) (files []string)
}

// NewClient returns a new archive.Client
func NewClient() (Client, error) {
	return &client{}, nil
}

type client struct {
}

func (c *client) CreateArchive(ctx context.Context, spec api.ArchiveSpec) (err error) {

	// every member has to exist before anything is touched on disk
	for _, member := range spec.Members {
		info, err := os.Stat(member)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %v", api.ErrArtifactNotFound, member)
			}
			return fmt.Errorf("checking archive member %v: %w", member, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%w: %v is not a regular file", api.ErrArtifactNotFound, member)
		}
	}

	archivePath := spec.Path()

	// a stale archive from an earlier run must never survive a re-run
	if err = os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale archive %v: %w", archivePath, err)
	}

	t, err := renameio.TempFile("", archivePath)
	if err != nil {
		return fmt.Errorf("creating pending archive for %v: %w", archivePath, err)
	}
	defer t.Cleanup()

	zipWriter := zip.NewWriter(t)
	for _, member := range spec.Members {
		if err = c.addMember(zipWriter, member); err != nil {
			return fmt.Errorf("adding %v to archive %v: %w", member, archivePath, err)
		}
	}
	if err = zipWriter.Close(); err != nil {
		return fmt.Errorf("finalizing archive %v: %w", archivePath, err)
	}

	if err = t.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("writing archive %v: %w", archivePath, err)
	}

	log.Info().Msgf("Created archive %v with %v member(s)", archivePath, len(spec.Members))

	return nil
}

// addMember stores a single file under its base name, so archives stay flat no
// matter where the member came from on the host.
func (c *client) addMember(zipWriter *zip.Writer, member string) (err error) {

	info, err := os.Stat(member)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(member)
	header.Method = zip.Deflate

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}

	file, err := os.Open(member)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(writer, file)

	return err
}

// CollectAuxiliaryFiles filters the include list down to files actually present
// in the project; absent entries are skipped, not errors.
func (c *client) CollectAuxiliaryFiles(projectDir string, include []string) (files []string) {

	files = []string{}

	for _, name := range include {
		path := filepath.Join(projectDir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}

	return files
}
