// Package gmail provides a client for listing recent emails through the
// Gmail API.
//
// The client is a read-only projection: it lists messages matching a
// Gmail search query (the provider's own filter grammar, passed through
// unmodified) and returns normalized summaries. Nothing is cached or
// mutated locally.
//
// Example usage:
//
//	client, err := gmail.NewClient(ctx, creds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.ListRecent(ctx, "is:unread", 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, email := range result.Emails {
//	    fmt.Println(email.Subject)
//	}
package gmail
