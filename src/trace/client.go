package trace

import (
	"bufio"
	"context"
	"io"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/model"
	"github.com/google/uuid"
	"github.com/quic-go/quic-go"
)

// Fetch asks the trace server at addr for up to limit of its newest events.
func Fetch(ctx context.Context, addr string, limit int) ([]model.SwitchEvent, error) {
	connection, err := quic.DialAddr(ctx, addr, clientTLSConfig(), quicConfig())
	if err != nil {
		return nil, err
	}
	defer connection.CloseWithError(0, "")

	stream, err := connection.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}

	req := model.TraceRequest{ID: uuid.New(), Limit: limit}
	if err := req.Write(stream); err != nil {
		return nil, err
	}
	// no more requests on this stream
	if err := stream.Close(); err != nil {
		return nil, err
	}

	var events []model.SwitchEvent
	reader := bufio.NewReader(stream)
	for {
		ev, err := model.ReadSwitchEvent(reader)
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, *ev)
	}
}
