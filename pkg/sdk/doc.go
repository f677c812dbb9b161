// Package sourcer provides an embeddable Go client for boolean candidate-search
// query generation.
//
// The local engine is deterministic and needs no network access:
//
//	client, _ := sourcer.New(ctx)
//	defer client.Close()
//	res, _ := client.Generate(ctx, sourcer.Request{
//	    Role:     "Software Engineer",
//	    Skills:   "TypeScript, React",
//	    Location: "NYC",
//	    Platform: "LinkedIn",
//	})
//	fmt.Println(res.Boolean)
//
// # Assist path
//
// Plug any text-generation provider in with WithCompleter to get an
// alternative boolean from a large language model:
//
//	client, _ := sourcer.New(ctx, sourcer.WithCompleter(myCompleter))
//	res, err := client.Assist(ctx, req)
//	if errors.Is(err, sourcer.ErrAssistProviderError) { ... }
//
// Usage counters are kept in memory; WithBadger persists them on disk.
package sourcer
