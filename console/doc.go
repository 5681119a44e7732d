/*
Package console implements the serialized console output of dnsload.

Instead of fiddling with shared global terminal color state, components post
[Message] values consisting of text and a [Severity] to a single [Sink]. The
Sink alone decides how to render them and writes them one at a time, so that
concurrently posted report lines and per-query lines never interleave.

# Acknowledgements

The Sink uses [caffix/queue] as its non-blocking message queue, [muesli/termenv]
for rendering severities, and [gosuri/uilive] for updating status lines in
place.

[caffix/queue]: https://github.com/caffix/queue
[muesli/termenv]: https://github.com/muesli/termenv
[gosuri/uilive]: https://github.com/gosuri/uilive
*/
package console
