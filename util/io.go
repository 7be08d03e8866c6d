package util

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
)

// Iterates the lines of reader with surrounding whitespace removed.
// Blank lines and lines starting with '#' are skipped. The line number
// passed to yield is 1-based and refers to the raw input.
func ReadLines(reader io.Reader) func(yield func(int, string) bool) {
	return func(yield func(int, string) bool) {
		scanner := bufio.NewScanner(reader)
		number := 0
		for scanner.Scan() {
			number += 1
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if !yield(number, line) {
				break
			}
		}
	}
}

func WriteJSONToFile[T any](value T, file string) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0644)
}

func ReadJSONFromFile[T any](file string) (T, error) {
	var value T
	_, err := os.Stat(file)
	if errors.Is(err, os.ErrNotExist) {
		return value, errors.New("file not found: " + file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return value, err
	}
	err = json.Unmarshal(data, &value)
	return value, err
}
