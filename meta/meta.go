// meta/meta.go
package meta

// ROOT_PARENT marks a job created directly from a legal move at the search root.
const ROOT_PARENT = -1

// MAX_JOBS_PER_WORKER caps the splitting target per worker to bound splitting cost.
const MAX_JOBS_PER_WORKER = 100

// JOBS_PER_WORKER is the default splitting target per worker.
const JOBS_PER_WORKER = 10

// SEND_SIZE is the default number of jobs handed out per job-pool request.
const SEND_SIZE = 3

// MASTER is the rank of the scheduling process. Workers are ranked 1..n-1.
const MASTER = 0

// UNLIMITED_BOARDS disables the board-budget cap.
const UNLIMITED_BOARDS = int(^uint(0) >> 1)
