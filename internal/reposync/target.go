package reposync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"winbootstrap/internal/config"
)

// DocumentsHost locates the operator's Documents folder.
type DocumentsHost interface {
	DocumentsDir() (string, error)
}

// ResolveTargetDir returns the directory the repository syncs into. An
// explicit repository.local_path wins; otherwise the project folder is placed
// under the OneDrive-redirected Documents folder when one exists, else under
// the folder the host reports.
func ResolveTargetDir(cfg *config.Config, host DocumentsHost) (string, error) {
	if cfg.Repository.LocalPath != "" {
		return cfg.Repository.LocalPath, nil
	}
	docs, err := documentsDir(host)
	if err != nil {
		return "", err
	}
	return filepath.Join(docs, cfg.Repository.ProjectFolder), nil
}

func documentsDir(host DocumentsHost) (string, error) {
	if oneDrive := os.Getenv("OneDrive"); oneDrive != "" {
		candidate := filepath.Join(oneDrive, "Documents")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}
	if host == nil {
		return "", errors.New("no documents folder provider")
	}
	docs, err := host.DocumentsDir()
	if err != nil {
		return "", fmt.Errorf("resolve documents folder: %w", err)
	}
	if docs == "" {
		return "", errors.New("resolve documents folder: empty path")
	}
	return docs, nil
}
