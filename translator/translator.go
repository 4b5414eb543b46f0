package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator *gst.ShaderTranslator
	initOnce   sync.Once
	initErr    error
)

// GetTranslator returns the process-wide shader translator, starting it on
// first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	initOnce.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
		if initErr != nil {
			initErr = fmt.Errorf("failed to start shader translator: %w", initErr)
		}
	})
	return translator, initErr
}

// TranslateFragment converts a WebGL2 fragment shader to the dialect of the
// current context and returns the translated source together with a map from
// each declared uniform to its name in that source.
func TranslateFragment(source string, isGLES bool) (code string, names map[string]string, err error) {
	t, err := GetTranslator()
	if err != nil {
		return "", nil, err
	}

	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}
	fs, err := t.TranslateShader(source, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return "", nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	names = make(map[string]string, len(fs.Variables))
	for name, v := range fs.Variables {
		names[name] = v.MappedName
	}
	return fs.Code, names, nil
}
