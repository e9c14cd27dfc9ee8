package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	wserrors "github.com/Aman-CERP/wordseq/internal/errors"
	"github.com/Aman-CERP/wordseq/internal/sequence"
)

// WriteFiles writes the report to seqPath and wordPath.
//
// Both files are written to temporaries in their target directories and
// renamed into place while an OutputLock on seqPath's directory is held.
// If wordPath cannot be replaced, seqPath is restored to its previous
// content (or removed if it did not exist), so a failed run leaves the
// previous pair intact.
func WriteFiles(ctx context.Context, seqPath, wordPath string, pairs []sequence.Pair) error {
	lock := NewOutputLock(filepath.Dir(seqPath))
	if err := lock.Lock(ctx); err != nil {
		return wserrors.New(wserrors.ErrCodeOutputLocked, "report outputs are locked by another run", err).
			WithDetail("lock", lock.Path())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("report_unlock_failed", slog.String("error", err.Error()))
		}
	}()

	seqTmp, err := createTemp(seqPath)
	if err != nil {
		return err
	}
	defer os.Remove(seqTmp.Name())

	wordTmp, err := createTemp(wordPath)
	if err != nil {
		closeTemp(seqTmp)
		return err
	}
	defer os.Remove(wordTmp.Name())

	writeErr := WriteAligned(seqTmp, wordTmp, pairs)
	if err := finish(seqTmp, writeErr); err != nil {
		closeTemp(wordTmp)
		return err
	}
	if err := finish(wordTmp, nil); err != nil {
		return err
	}

	backup, err := backupFile(seqPath, seqTmp.Name()+".bak")
	if err != nil {
		return err
	}
	if backup != "" {
		defer os.Remove(backup)
	}

	if err := os.Rename(seqTmp.Name(), seqPath); err != nil {
		return wserrors.OutputError(fmt.Sprintf("failed to replace %s", seqPath), err).
			WithDetail("path", seqPath)
	}
	if err := os.Rename(wordTmp.Name(), wordPath); err != nil {
		restoreFile(seqPath, backup)
		return wserrors.OutputError(fmt.Sprintf("failed to replace %s", wordPath), err).
			WithDetail("path", wordPath)
	}

	slog.Debug("report_written",
		slog.String("sequences", seqPath),
		slog.String("words", wordPath),
		slog.Int("entries", len(pairs)))

	return nil
}

func createTemp(target string) (*os.File, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wserrors.OutputError(fmt.Sprintf("failed to create directory %s", dir), err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return nil, wserrors.OutputError(fmt.Sprintf("failed to create temp file for %s", target), err).
			WithDetail("path", target)
	}
	return f, nil
}

// finish syncs and closes f, returning writeErr first if set.
func finish(f *os.File, writeErr error) error {
	if writeErr != nil {
		closeTemp(f)
		return writeErr
	}
	if err := f.Sync(); err != nil {
		closeTemp(f)
		return wserrors.OutputError(fmt.Sprintf("failed to sync %s", f.Name()), err)
	}
	if err := f.Close(); err != nil {
		return wserrors.OutputError(fmt.Sprintf("failed to close %s", f.Name()), err)
	}
	return nil
}

// closeTemp closes a temp file that is about to be discarded.
func closeTemp(f *os.File) {
	if err := f.Close(); err != nil {
		slog.Warn("report_temp_close_failed",
			slog.String("path", f.Name()),
			slog.String("error", err.Error()))
	}
}

// backupFile preserves the current content of path at backup, hard-linking
// when the filesystem allows it and copying otherwise. It returns "" when
// path does not exist.
func backupFile(path, backup string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", wserrors.OutputError(fmt.Sprintf("failed to stat %s", path), err).
			WithDetail("path", path)
	}
	if info.IsDir() {
		// the rename below fails and there is nothing to restore
		return "", nil
	}

	if err := os.Link(path, backup); err == nil {
		return backup, nil
	}
	if err := copyFile(path, backup); err != nil {
		_ = os.Remove(backup)
		return "", wserrors.OutputError(fmt.Sprintf("failed to back up %s", path), err).
			WithDetail("path", path)
	}
	return backup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// restoreFile puts backup back at path, or removes path when there was no
// previous file.
func restoreFile(path, backup string) {
	var err error
	if backup == "" {
		err = os.Remove(path)
	} else {
		err = os.Rename(backup, path)
	}
	if err != nil {
		slog.Error("report_rollback_failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	slog.Warn("report_rolled_back", slog.String("path", path))
}
