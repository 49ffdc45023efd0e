package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log/level"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/tokenizer"
)

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation
func Parse(reader io.Reader, opts ...Option) (models.IntermediateRepresentation, error) {
	return New(tokenizer.New(reader), opts...).representation()
}

// ParseString parses JSON from a string
func ParseString(jsonString string, opts ...Option) (models.IntermediateRepresentation, error) {
	return Parse(strings.NewReader(jsonString), opts...)
}

// ParseObject parses text that must hold exactly one JSON object.
func ParseObject(text string, opts ...Option) (*models.Object, error) {
	return New(tokenizer.NewString(text), opts...).ParseObject()
}

// ParseArray parses text that must hold exactly one JSON array.
func ParseArray(text string, opts ...Option) (models.Array, error) {
	return New(tokenizer.NewString(text), opts...).ParseArray()
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string, opts ...Option) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	p := New(tokenizer.New(file), opts...)
	defer func() {
		if err := file.Close(); err != nil {
			level.Warn(p.logger).Log("msg", "error closing file", "file", filePath, "err", err)
		}
	}()

	return p.representation()
}

func (p *Parser) representation() (models.IntermediateRepresentation, error) {
	root, err := p.Parse()
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	_, isArray := root.(models.Array)
	return models.IntermediateRepresentation{
		Root:        root,
		RootIsArray: isArray,
	}, nil
}
