// Command korractl is the operator CLI for the coordinator's admin API.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost", "coordinator admin host")
	flag.StringVar(host, "h", "localhost", "shorthand for -host")
	port := flag.Int("port", 8080, "coordinator admin port")
	flag.IntVar(port, "p", 8080, "shorthand for -port")
	watch := flag.Bool("watch", false, "for job:list, stream live updates instead of a single snapshot")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: korractl <command> [args...]")
		os.Exit(1)
	}

	base := fmt.Sprintf("http://%s:%d", *host, *port)
	cmd := args[0]
	rest := args[1:]

	var err error
	switch cmd {
	case "agent:deploy":
		err = agentDeploy(base, rest)
	case "agent:list":
		err = listAndPrint(base + "/api/agents")
	case "node:list":
		err = listAndPrint(base + "/api/nodes")
	case "job:submit":
		err = jobSubmit(base, rest)
	case "job:list":
		for _, a := range rest {
			if a == "--watch" || a == "-watch" {
				*watch = true
			}
		}
		if *watch {
			err = jobWatch(*host, *port)
		} else {
			err = listAndPrint(base + "/api/jobs")
		}
	case "job:cancel":
		err = jobCancel(base, rest)
	case "inspect":
		err = inspectNode(base, rest)
	case "snapshot:create":
		err = snapshotCreate(base, rest)
	case "snapshot:list":
		err = snapshotList(base, rest)
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func agentDeploy(base string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: agent:deploy <path-to-manifest.json>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	resp, err := http.Post(base+"/api/agents", "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printBody(resp)
}

func jobSubmit(base string, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: job:submit <agentId> <inputFile>")
	}
	input, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	body, _ := json.Marshal(map[string]string{
		"agent_id": args[0],
		"input":    string(input),
	})
	resp, err := http.Post(base+"/api/jobs", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printBody(resp)
}

func jobCancel(base string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: job:cancel <jobId>")
	}
	resp, err := http.Post(base+"/api/jobs/"+args[0]+"/cancel", "application/json", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printBody(resp)
}

func inspectNode(base string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: inspect <nodeId>")
	}
	resp, err := http.Get(base + "/api/audit?subjectId=" + args[0])
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printBody(resp)
}

func snapshotCreate(base string, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: snapshot:create <componentId> <payloadFile>")
	}
	payload, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	body, _ := json.Marshal(map[string]string{
		"component_id": args[0],
		"payload":      base64.StdEncoding.EncodeToString(payload),
	})
	resp, err := http.Post(base+"/api/snapshots", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printBody(resp)
}

func snapshotList(base string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: snapshot:list <componentId>")
	}
	return listAndPrint(base + "/api/snapshots?component_id=" + args[0])
}

func listAndPrint(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printBody(resp)
}

func printBody(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, data, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(data))
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	return nil
}

func jobWatch(host string, port int) error {
	url := fmt.Sprintf("ws://%s:%d/ws", host, port)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial live feed: %w", err)
	}
	defer conn.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	msgCh := make(chan []byte)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				close(msgCh)
				return
			}
			msgCh <- data
		}
	}()

	for {
		select {
		case <-sigCh:
			return nil
		case data, ok := <-msgCh:
			if !ok {
				return nil
			}
			if strings.Contains(string(data), `"kind":"job_`) {
				fmt.Println(string(data))
			}
		}
	}
}
