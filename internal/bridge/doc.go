// Package bridge is the desktop shell's operation layer.
//
// Each Shell method is a thin, fully awaited translation of one local
// operation into one backend call:
//
//   - SubmitFile: read a local file, upload it, register the job
//   - SubmitURL: forward a URL, register the job
//   - GetStatus: relay the backend's status payload unmodified
//   - DownloadResult: fetch a rendered result and write it to disk
//   - ReadLocalFile: read a UTF-8 text file (no backend call)
//   - CancelJob: delete the job remotely, then unregister it
//
// The job registry (state.Registry) and the backend (Backend) are injected,
// so tests can hand each case a fresh registry and a fake backend.
//
// Every failure is an *Error whose Kind is one of KindLocalIO,
// KindTransport, KindDecode or KindRemote. Presentation code branches on
// KindOf(err) and displays Message(err). Nothing is retried, and submits
// only touch the registry after the backend accepted the job and its reply
// decoded.
package bridge
