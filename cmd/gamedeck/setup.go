package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gamedeck/internal/adapter"
	"github.com/mmcdole/gamedeck/internal/catalog"
	"github.com/mmcdole/gamedeck/internal/tui/styles"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// runSetupFlow asks for the catalog URL, checks it and saves it
func runSetupFlow(ctx context.Context, cfg *adapter.Config) error {
	fmt.Println()
	fmt.Println("Welcome to gamedeck!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	// Loop until we get a reachable catalog
	var apiRoot string
	for {
		fmt.Printf("Enter the catalog API URL [%s]: ", cfg.Server.URL)
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL := strings.TrimSpace(input)
		if serverURL == "" {
			serverURL = cfg.Server.URL
		}
		if serverURL == "" {
			fmt.Println("URL cannot be empty. Please try again.")
			continue
		}

		fmt.Println()
		root, err := pingWithSpinner(ctx, serverURL)
		if err != nil {
			fmt.Printf("\n✗ Could not reach the catalog: %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}
		apiRoot = root
		break
	}

	cfg.Server.URL = apiRoot
	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run gamedeck again to start browsing.")

	return nil
}

// pingWithSpinner checks the catalog health endpoint with a visual spinner
func pingWithSpinner(ctx context.Context, serverURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	type result struct {
		root string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		root, err := catalog.Ping(ctx, serverURL)
		resultCh <- result{root, err}
	}()

	frame := 0
	fmt.Printf("\r%s Connecting...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if res.err != nil {
				return "", res.err
			}
			fmt.Printf("✓ Connected: %s\n", res.root)
			return res.root, nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Connecting...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return "", fmt.Errorf("connection timed out")
		}
	}
}
