/*
Package corpus loads the hostname corpus that dnsload queries and draws the
per-tick samples from it.

A corpus file is line-oriented, such as the well-known Tranco top sites list
in "rank,hostname" CSV format:

	1,google.com
	2,microsoft.com
	# comments and empty lines are skipped

[Sampler.Sample] then draws k distinct hostnames at random for each dispatch
tick, or fails with [ErrInsufficientCorpus] when k exceeds the corpus size.
*/
package corpus
