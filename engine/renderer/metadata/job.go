package metadata

/** @brief Describes a type of job */
type JobType int

const (
	/**
	 * @brief A general job that does not have any specific thread requirements.
	 * This means it matters little which job thread this job runs on.
	 */
	JOB_TYPE_GENERAL JobType = 0x02
	/**
	 * @brief A resource loading job. Disk reads and decoding.
	 */
	JOB_TYPE_RESOURCE_LOAD JobType = 0x04
)

/**
 * @brief Describes a job to be run.
 */
type JobTask struct {
	/** @brief Human readable name, used in diagnostics. */
	Name string
	/** @brief The type of job. */
	JobType JobType
	/** @brief Executed on a worker. Required. */
	Run func() (interface{}, error)
	/** @brief Invoked on the main thread with the result of Run when it succeeds. Optional. */
	OnComplete func(result interface{})
	/** @brief Invoked on the main thread with the error of Run when it fails. Optional. */
	OnFailure func(err error)
}
