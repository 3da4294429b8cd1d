package main

//
// The call subcommand.
//

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/fieldops/franchise-client/internal/httpapi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// callOptions contains the options of the call subcommand.
type callOptions struct {
	Data  string
	Files []string
	Forms []string
	ID    string
	Query []string
}

// registerCallCommand registers the call subcommand.
func registerCallCommand(rootCmd *cobra.Command, globalOptions *Options, stdout, stderr io.Writer) {
	var options callOptions
	subCmd := &cobra.Command{
		Use:   "call KEY",
		Short: "Calls the endpoint with the given key and prints the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := newCallRequest(args[0], &options)
			if err != nil {
				return err
			}
			return withEnvironment(globalOptions, stderr, func(env *environment) error {
				result, err := env.client.Execute(context.Background(), req)
				if err != nil {
					return err
				}
				return printResult(stdout, result)
			})
		},
	}
	rootCmd.AddCommand(subCmd)
	flags := subCmd.Flags()

	flags.StringVar(
		&options.ID,
		"id",
		"",
		"path parameter for parameterized endpoints",
	)

	flags.StringSliceVarP(
		&options.Query,
		"query",
		"q",
		[]string{},
		"add KEY=VALUE query parameter (may be specified multiple times)",
	)

	flags.StringVarP(
		&options.Data,
		"data",
		"d",
		"",
		"JSON request body",
	)

	flags.StringSliceVarP(
		&options.Forms,
		"form",
		"F",
		[]string{},
		"add KEY=VALUE multipart field (may be specified multiple times)",
	)

	flags.StringSliceVar(
		&options.Files,
		"file",
		[]string{},
		"add FIELD=PATH multipart file (may be specified multiple times)",
	)

	subCmd.MarkFlagsMutuallyExclusive("data", "form")
	subCmd.MarkFlagsMutuallyExclusive("data", "file")
}

// splitPair takes in input a string in the form KEY=VALUE and splits it. This
// function returns an error if it cannot find the = character to split the string.
func splitPair(s string) (string, string, error) {
	key, value, found := strings.Cut(s, "=")
	if !found || key == "" {
		return "", "", fmt.Errorf("invalid key-value pair: %q", s)
	}
	return key, value, nil
}

// newCallRequest creates the request described by the options.
func newCallRequest(key string, options *callOptions) (*httpapi.Request, error) {
	req := &httpapi.Request{
		Key:       key,
		PathParam: options.ID,
	}

	if len(options.Query) > 0 {
		req.Query = make(map[string]any)
		for _, entry := range options.Query {
			k, v, err := splitPair(entry)
			if err != nil {
				return nil, errors.Wrap(err, "--query")
			}
			req.Query[k] = v
		}
	}

	if options.Data != "" {
		var value any
		if err := json.Unmarshal([]byte(options.Data), &value); err != nil {
			return nil, errors.Wrap(err, "--data")
		}
		req.Body = httpapi.JSONBody{Value: value}
		return req, nil
	}

	if len(options.Forms) <= 0 && len(options.Files) <= 0 {
		return req, nil
	}
	body := httpapi.MultipartBody{Fields: make(map[string]string)}
	for _, entry := range options.Forms {
		k, v, err := splitPair(entry)
		if err != nil {
			return nil, errors.Wrap(err, "--form")
		}
		body.Fields[k] = v
	}
	for _, entry := range options.Files {
		field, path, err := splitPair(entry)
		if err != nil {
			return nil, errors.Wrap(err, "--file")
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "--file")
		}
		body.Files = append(body.Files, httpapi.MultipartFile{
			Field:       field,
			Filename:    filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Content:     content,
		})
	}
	req.Body = body
	return req, nil
}

// printResult pretty-prints a decoded result to w.
func printResult(w io.Writer, result any) error {
	if result == nil {
		return nil
	}
	if s, ok := result.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
