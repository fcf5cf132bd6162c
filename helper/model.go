package helper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
)

// PrepareModel returns the local path of a hugot model, downloading it on
// first use. The path segment replaces "/" so the model name stays a single
// directory under ./models.
func PrepareModel(modelName string) (string, error) {
	modelDir := "./models"
	modelPath := filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))

	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		if err := os.MkdirAll(modelDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create model directory: %w", err)
		}
		downloadOptions := hugot.NewDownloadOptions()
		downloadOptions.OnnxFilePath = "onnx/model.onnx"
		downloadedPath, err := hugot.DownloadModel(modelName, modelDir, downloadOptions)
		if err != nil {
			return "", fmt.Errorf("failed to download model: %w", err)
		}
		modelPath = downloadedPath
	}

	return modelPath, nil
}
