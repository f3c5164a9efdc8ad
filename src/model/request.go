package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// TraceRequest asks a trace server for its most recent switch events.
type TraceRequest struct {
	ID uuid.UUID
	// Maximum number of events to return. Zero returns everything buffered.
	Limit int
}

// Write a TraceRequest.
func (r *TraceRequest) Write(writer io.Writer) (err error) {
	_, err = fmt.Fprintf(writer, "ID: %s\nLimit: %d\n\n", r.ID, r.Limit)
	return
}

// Read a TraceRequest.
func ReadTraceRequest(reader *bufio.Reader) (req *TraceRequest, err error) {
	headers, err := readHeaders(reader)
	if err != nil {
		return nil, err
	}

	request := &TraceRequest{}
	for key, value := range headers {
		switch key {
		case "ID":
			if request.ID, err = uuid.Parse(value); err != nil {
				return nil, err
			}
		case "Limit":
			if request.Limit, err = strconv.Atoi(value); err != nil {
				return nil, err
			}
		}
	}
	return request, nil
}

// Reads "Key: Value" lines up to and including the terminating empty line.
func readHeaders(reader *bufio.Reader) (map[string]string, error) {
	headers := map[string]string{}
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = line[:len(line)-1] // Removes the \n
		if len(line) == 0 {
			return headers, nil
		}

		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			return nil, errors.New("not a key value pair")
		}
		headers[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
}
