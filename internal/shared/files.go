package shared

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// GetRootPath returns the absolute metadata tree root selected by --root or helixmeta.toml
func GetRootPath() (string, error) {
	return filepath.Abs(viper.GetString("root"))
}

// GetIndexPath returns the absolute path of the index.toml of the metadata tree
func GetIndexPath(indexFileName string) (string, error) {
	root, err := GetRootPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, indexFileName), nil
}
