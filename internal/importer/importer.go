// Package importer bulk-loads users, chats and messages from a CSV export.
// Each row carries one message with its sender and room; the first row for
// a new chat title creates the room, later rows reuse it.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/woomsg/woomsg/internal/service"
)

// Required header columns, in any order.
var requiredColumns = []string{"Username", "Password", "Name", "Email", "Chat_Title", "Time", "Message"}

type Importer struct {
	svc *service.Service
	log *zap.Logger
}

func New(svc *service.Service, log *zap.Logger) *Importer {
	return &Importer{svc: svc, log: log}
}

func (i *Importer) ImportFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return i.Import(f)
}

func (i *Importer) Import(r io.Reader) error {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for pos, col := range header {
		index[col] = pos
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("csv missing column %q", col)
		}
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read csv line %d: %w", line+1, err)
		}
		line++

		if err := i.importRow(func(col string) string { return row[index[col]] }); err != nil {
			return fmt.Errorf("import csv line %d: %w", line, err)
		}
	}

	i.log.Info("csv import finished", zap.Int("rows", line-1))
	return nil
}

// importRow registers the row's user, ensures its chat exists, links the
// user to the chat and posts the message — in that order, so foreign keys
// always resolve.
func (i *Importer) importRow(field func(string) string) error {
	user, err := i.svc.RegisterUser(field("Name"), field("Email"), field("Username"), field("Password"))
	if err != nil {
		return err
	}

	chat, err := i.svc.CreateChat(field("Chat_Title"), field("Time"))
	if err != nil {
		return err
	}

	if _, err := i.svc.AddParticipant(user.ID, chat.ID); err != nil {
		return err
	}

	_, err = i.svc.PostMessage(field("Message"), field("Time"), user.ID, chat.ID)
	return err
}
