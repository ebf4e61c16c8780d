package main

import (
	"bufio"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/ViacheslavGIT/MegaMart/internal/chat"
)

func chatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the support bot; one message per line, EOF to quit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := a.api.DialChat(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := a.printFrame(conn); err != nil {
				return err
			}
			in := bufio.NewScanner(cmd.InOrStdin())
			for in.Scan() {
				text := strings.TrimSpace(in.Text())
				if text == "" {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
					return err
				}
				if err := a.printFrame(conn); err != nil {
					return err
				}
			}
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return in.Err()
		},
	}
}

func (a *app) printFrame(conn *websocket.Conn) error {
	var f chat.Frame
	if err := conn.ReadJSON(&f); err != nil {
		return err
	}
	from := f.From
	if from == "" {
		from = "bot"
	}
	a.printf("%s: %s\n", from, f.Text)
	return nil
}
