// Package romloader reads a ROM image fully into memory. Plain files are
// loaded as-is; zip, gzip, tar.gz, 7z and rar archives are detected by
// magic bytes and the first entry with a cartridge extension is extracted.
package romloader

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

// romExtensions lists recognized cartridge image extensions.
var romExtensions = []string{".gb", ".gbc", ".rom", ".bin"}

// maxROMSize caps a cartridge image at 8MB, the largest bank-switched
// cartridge the hardware supports.
const maxROMSize = 8 * 1024 * 1024

// ErrNoROMFile is returned when an archive contains no ROM entry.
var ErrNoROMFile = errors.New("no ROM file found in archive")

// ErrROMTooLarge is returned when an image exceeds maxROMSize.
var ErrROMTooLarge = errors.New("ROM image exceeds maximum size")

var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21}
)

type format int

const (
	formatRaw format = iota
	formatZIP
	format7z
	formatGzip
	formatRAR
)

// Load reads a ROM image from path. Returns the image bytes and the name of
// the loaded file (the archive entry name for archives, for display).
func Load(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open ROM: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("failed to read ROM header: %w", err)
	}

	switch detectFormat(header[:n]) {
	case formatZIP:
		return loadZIP(path)
	case format7z:
		return load7z(path)
	case formatGzip:
		return loadGzip(path)
	case formatRAR:
		return loadRAR(path)
	default:
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, "", fmt.Errorf("failed to rewind ROM: %w", err)
		}
		data, err := limitedRead(f)
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(path), nil
	}
}

func detectFormat(header []byte) format {
	switch {
	case bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	}
	return formatRaw
}

func isROMName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range romExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// limitedRead reads all of r, failing if it exceeds maxROMSize.
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxROMSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM data: %w", err)
	}
	if len(data) > maxROMSize {
		return nil, ErrROMTooLarge
	}
	return data, nil
}

func loadZIP(path string) ([]byte, string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isROMName(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		data, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(f.Name), nil
	}
	return nil, "", ErrNoROMFile
}

func load7z(path string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isROMName(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		data, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(f.Name), nil
	}
	return nil, "", ErrNoROMFile
}

func loadGzip(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gzip: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return loadTar(gr)
	}

	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", err
	}
	name := strings.TrimSuffix(filepath.Base(path), ".gz")
	return data, name, nil
}

func loadTar(r io.Reader) ([]byte, string, error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read tar entry: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || !isROMName(hdr.Name) {
			continue
		}
		data, err := limitedRead(tr)
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(hdr.Name), nil
	}
	return nil, "", ErrNoROMFile
}

func loadRAR(path string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}
		if hdr.IsDir || !isROMName(hdr.Name) {
			continue
		}
		data, err := limitedRead(r)
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(hdr.Name), nil
	}
	return nil, "", ErrNoROMFile
}
