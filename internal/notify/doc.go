// Package notify delivers one-time passcodes to recipients.
//
// Every backend implements Sender:
//   - ConsoleSender prints a simulated email to a writer
//   - OutboxSender writes each message as .txt and .json files to a directory
//   - PostmarkSender delivers through the Postmark transactional API
//
// Delivery is fire-and-forget: a failed Send is reported to the caller but
// never revokes the code it carried.
package notify
