package engine

import "strings"

// Kind identifies the engine specific behaviour of a descriptor
type Kind int

const (
	KindGeneric Kind = iota
	KindBdb
	KindBerkeleyDB
	KindBinlog
	KindInnobase
	KindInnoDB
	KindMemory
	KindMerge
	KindMrgMyISAM
	KindMyISAM
	KindNDBCluster
	KindPBXT
	KindPerformanceSchema
	KindMroonga
)

// VariableInfo describes a server variable known to an engine
type VariableInfo struct {
	Name        string
	Title       string
	Description string
	Type        DetailsType
}

// InfoPage is an engine specific information page
type InfoPage struct {
	ID    string
	Label string
}

type profile struct {
	kind      Kind
	variables []VariableInfo
	like      string
	helpPage  string
	pages     []InfoPage
	sizeFn    func(value string) (string, bool)
}

var profiles = map[string]func() *profile{
	"bdb":                func() *profile { return bdbProfile(KindBdb) },
	"berkeleydb":         func() *profile { return bdbProfile(KindBerkeleyDB) },
	"binlog":             binlogProfile,
	"innobase":           func() *profile { return innodbProfile(KindInnobase) },
	"innodb":             func() *profile { return innodbProfile(KindInnoDB) },
	"memory":             memoryProfile,
	"merge":              func() *profile { return mergeProfile(KindMerge) },
	"mrg_myisam":         func() *profile { return mergeProfile(KindMrgMyISAM) },
	"myisam":             myisamProfile,
	"ndbcluster":         ndbProfile,
	"pbxt":               pbxtProfile,
	"performance_schema": performanceSchemaProfile,
	"mroonga":            mroongaProfile,
}

func lookupProfile(id string) *profile {
	if fn, ok := profiles[strings.ToLower(id)]; ok {
		return fn()
	}
	return &profile{kind: KindGeneric}
}

func bdbProfile(kind Kind) *profile {
	return &profile{
		kind:     kind,
		like:     `bdb\_%`,
		helpPage: "bdb",
		variables: []VariableInfo{
			{Name: "version_bdb", Title: "Version information"},
			{Name: "bdb_cache_size", Type: DetailsSize},
			{Name: "bdb_home"},
			{Name: "bdb_log_buffer_size", Type: DetailsSize},
			{Name: "bdb_logdir"},
			{Name: "bdb_max_lock", Type: DetailsNumeric},
			{Name: "bdb_shared_data"},
			{Name: "bdb_tmpdir"},
			{Name: "bdb_data_direct"},
			{Name: "bdb_lock_detect"},
			{Name: "bdb_log_direct"},
			{Name: "bdb_no_recover"},
			{Name: "bdb_no_sync"},
			{Name: "skip_sync_bdb_logs"},
			{Name: "sync_bdb_logs"},
		},
	}
}

func binlogProfile() *profile {
	return &profile{kind: KindBinlog, helpPage: "binary-log"}
}

func innodbProfile(kind Kind) *profile {
	return &profile{
		kind:     kind,
		like:     `innodb\_%`,
		helpPage: "innodb-storage-engine",
		pages: []InfoPage{
			{ID: PageBufferpool, Label: "Buffer Pool"},
			{ID: PageStatus, Label: "InnoDB Status"},
		},
		variables: []VariableInfo{
			{Name: "innodb_data_home_dir", Title: "Data home directory",
				Description: "The common part of the directory path for all InnoDB data files."},
			{Name: "innodb_data_file_path", Title: "Data files"},
			{Name: "innodb_autoextend_increment", Title: "Autoextend increment", Type: DetailsNumeric,
				Description: "The increment size for extending the size of an autoextending tablespace when it becomes full."},
			{Name: "innodb_buffer_pool_size", Title: "Buffer pool size", Type: DetailsSize,
				Description: "The size of the memory buffer InnoDB uses to cache data and indexes of its tables."},
			{Name: "innodb_additional_mem_pool_size", Type: DetailsSize},
			{Name: "innodb_buffer_pool_awe_mem_mb", Type: DetailsSize},
			{Name: "innodb_checksums"},
			{Name: "innodb_commit_concurrency"},
			{Name: "innodb_concurrency_tickets", Type: DetailsNumeric},
			{Name: "innodb_doublewrite"},
			{Name: "innodb_fast_shutdown"},
			{Name: "innodb_file_io_threads", Type: DetailsNumeric},
			{Name: "innodb_file_per_table"},
			{Name: "innodb_flush_log_at_trx_commit"},
			{Name: "innodb_flush_method"},
			{Name: "innodb_force_recovery"},
			{Name: "innodb_lock_wait_timeout", Type: DetailsNumeric},
			{Name: "innodb_locks_unsafe_for_binlog"},
			{Name: "innodb_log_arch_dir"},
			{Name: "innodb_log_archive"},
			{Name: "innodb_log_buffer_size", Type: DetailsSize},
			{Name: "innodb_log_file_size", Type: DetailsSize},
			{Name: "innodb_log_files_in_group", Type: DetailsNumeric},
			{Name: "innodb_log_group_home_dir"},
			{Name: "innodb_max_dirty_pages_pct", Type: DetailsNumeric},
			{Name: "innodb_max_purge_lag"},
			{Name: "innodb_mirrored_log_groups", Type: DetailsNumeric},
			{Name: "innodb_open_files", Type: DetailsNumeric},
			{Name: "innodb_support_xa"},
			{Name: "innodb_sync_spin_loops", Type: DetailsNumeric},
			{Name: "innodb_table_locks", Type: DetailsBoolean},
			{Name: "innodb_thread_concurrency", Type: DetailsNumeric},
			{Name: "innodb_thread_sleep_delay", Type: DetailsNumeric},
		},
	}
}

func memoryProfile() *profile {
	return &profile{
		kind:     KindMemory,
		helpPage: "memory-storage-engine",
		variables: []VariableInfo{
			{Name: "max_heap_table_size", Type: DetailsSize},
		},
	}
}

func mergeProfile(kind Kind) *profile {
	return &profile{kind: kind, helpPage: "merge-storage-engine"}
}

func myisamProfile() *profile {
	return &profile{
		kind:     KindMyISAM,
		like:     `myisam\_%`,
		helpPage: "myisam-storage-engine",
		variables: []VariableInfo{
			{Name: "myisam_data_pointer_size", Title: "Data pointer size", Type: DetailsSize,
				Description: "The default pointer size in bytes, to be used by CREATE TABLE for MyISAM tables when no MAX_ROWS option is specified."},
			{Name: "myisam_recover_options", Title: "Automatic recovery mode",
				Description: "The mode for automatic recovery of crashed MyISAM tables, as set via the --myisam-recover server startup option."},
			{Name: "myisam_max_sort_file_size", Title: "Maximum size for temporary sort files", Type: DetailsSize,
				Description: "The maximum size of the temporary file MySQL is allowed to use while re-creating a MyISAM index."},
			{Name: "myisam_max_extra_sort_file_size", Title: "Maximum size for temporary files on index creation", Type: DetailsSize},
			{Name: "myisam_repair_threads", Title: "Repair threads", Type: DetailsNumeric,
				Description: "If this value is greater than 1, MyISAM table indexes are created in parallel during the repair by sorting process."},
			{Name: "myisam_sort_buffer_size", Title: "Sort buffer size", Type: DetailsSize,
				Description: "The buffer that is allocated when sorting MyISAM indexes during a REPAIR TABLE or when creating indexes."},
			{Name: "myisam_stats_method"},
			{Name: "delay_key_write"},
			{Name: "bulk_insert_buffer_size", Type: DetailsSize},
			{Name: "skip_external_locking"},
		},
	}
}

func ndbProfile() *profile {
	return &profile{
		kind:     KindNDBCluster,
		like:     `ndb\_%`,
		helpPage: "ndbcluster",
		variables: []VariableInfo{
			{Name: "ndb_connectstring"},
		},
	}
}

func pbxtProfile() *profile {
	return &profile{
		kind:     KindPBXT,
		helpPage: "pbxt",
		sizeFn:   pbxtSize,
		pages: []InfoPage{
			{ID: PageDocumentation, Label: "Documentation"},
		},
		variables: []VariableInfo{
			{Name: "pbxt_index_cache_size", Title: "Index cache size", Type: DetailsSize,
				Description: "This is the amount of memory allocated to the index cache."},
			{Name: "pbxt_record_cache_size", Title: "Record cache size", Type: DetailsSize,
				Description: "This is the amount of memory allocated to the record cache used to cache table data."},
			{Name: "pbxt_log_cache_size", Title: "Log cache size", Type: DetailsSize,
				Description: "The amount of memory allocated to the transaction log cache used to cache on transaction log data."},
			{Name: "pbxt_log_file_threshold", Title: "Log file threshold", Type: DetailsSize,
				Description: "The size of a transaction log before rollover, and a new log is created."},
			{Name: "pbxt_transaction_buffer_size", Title: "Transaction buffer size", Type: DetailsSize,
				Description: "The size of the global transaction log buffer (the engine allocates 2 buffers of this size)."},
			{Name: "pbxt_checkpoint_frequency", Title: "Checkpoint frequency", Type: DetailsSize,
				Description: "The amount of data written to the transaction log before a checkpoint is performed."},
			{Name: "pbxt_data_log_threshold", Title: "Data log threshold", Type: DetailsSize,
				Description: "The maximum size of a data log file."},
			{Name: "pbxt_garbage_threshold", Title: "Garbage threshold", Type: DetailsNumeric,
				Description: "The percentage of garbage in a data log file before it is compacted."},
			{Name: "pbxt_log_buffer_size", Title: "Log buffer size", Type: DetailsSize,
				Description: "The size of the buffer used when writing a data log."},
			{Name: "pbxt_data_file_grow_size", Title: "Data file grow size", Type: DetailsSize,
				Description: "The grow size of the handle data (.xtd) files."},
			{Name: "pbxt_row_file_grow_size", Title: "Row file grow size", Type: DetailsSize,
				Description: "The grow size of the row pointer (.xtr) files."},
			{Name: "pbxt_log_file_count", Title: "Log file count", Type: DetailsNumeric,
				Description: "This is the number of transaction log files (pbxt/system/xlog*.xt) the system will maintain."},
		},
	}
}

func performanceSchemaProfile() *profile {
	return &profile{kind: KindPerformanceSchema, helpPage: "performance-schema"}
}

func mroongaProfile() *profile {
	return &profile{kind: KindMroonga, like: `mroonga\_%`, helpPage: "mroonga"}
}
